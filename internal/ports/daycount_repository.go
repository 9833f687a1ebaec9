package ports

import (
	"context"

	"github.com/emiliopalmerini/rightcount/internal/domain"
)

// DayCountRepository is the counting service's storage contract.
type DayCountRepository interface {
	// Upsert fully replaces the record for (day, workstation): last write
	// wins per source, never an additive merge.
	Upsert(ctx context.Context, dc domain.DayCount) error

	// GetDay returns every workstation's record for a day, ordered by
	// workstation id.
	GetDay(ctx context.Context, day string) ([]domain.DayCount, error)

	// GetAll returns every stored record ordered by day, then workstation id.
	GetAll(ctx context.Context) ([]domain.DayCount, error)
}
