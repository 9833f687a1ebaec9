package web

import (
	"context"
	"sort"

	"github.com/emiliopalmerini/rightcount/internal/domain"
)

// MockDayCountRepository is an in-memory DayCountRepository for testing.
type MockDayCountRepository struct {
	Records map[string]domain.DayCount

	UpsertErr error
	GetErr    error
}

func NewMockDayCountRepository() *MockDayCountRepository {
	return &MockDayCountRepository{Records: make(map[string]domain.DayCount)}
}

func (m *MockDayCountRepository) Upsert(ctx context.Context, dc domain.DayCount) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Records[dc.Day+"|"+dc.WorkstationID] = dc
	return nil
}

func (m *MockDayCountRepository) GetDay(ctx context.Context, day string) ([]domain.DayCount, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	var out []domain.DayCount
	for _, dc := range m.Records {
		if dc.Day == day {
			out = append(out, dc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkstationID < out[j].WorkstationID })
	return out, nil
}

func (m *MockDayCountRepository) GetAll(ctx context.Context) ([]domain.DayCount, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	out := make([]domain.DayCount, 0, len(m.Records))
	for _, dc := range m.Records {
		out = append(out, dc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].WorkstationID < out[j].WorkstationID
	})
	return out, nil
}
