package turso

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/emiliopalmerini/rightcount/internal/domain"
)

// DayCountRepository stores per-(day, workstation) count records. Pattern
// counts live in a JSON column so the service never needs to know the
// pattern list in advance.
type DayCountRepository struct {
	db *sql.DB
}

func NewDayCountRepository(db *sql.DB) *DayCountRepository {
	return &DayCountRepository{db: db}
}

func (r *DayCountRepository) Upsert(ctx context.Context, dc domain.DayCount) error {
	patterns, err := json.Marshal(dc.Patterns)
	if err != nil {
		return fmt.Errorf("failed to encode patterns: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO day_counts (day, workstation_id, patterns, total_messages)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (day, workstation_id)
		DO UPDATE SET patterns = excluded.patterns, total_messages = excluded.total_messages
	`, dc.Day, dc.WorkstationID, string(patterns), dc.TotalMessages)
	if err != nil {
		return fmt.Errorf("failed to upsert day count: %w", err)
	}
	return nil
}

func (r *DayCountRepository) GetDay(ctx context.Context, day string) ([]domain.DayCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT day, workstation_id, patterns, total_messages
		FROM day_counts
		WHERE day = ?
		ORDER BY workstation_id
	`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query day counts: %w", err)
	}
	defer rows.Close()

	return scanDayCounts(rows)
}

func (r *DayCountRepository) GetAll(ctx context.Context) ([]domain.DayCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT day, workstation_id, patterns, total_messages
		FROM day_counts
		ORDER BY day, workstation_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query day counts: %w", err)
	}
	defer rows.Close()

	return scanDayCounts(rows)
}

func scanDayCounts(rows *sql.Rows) ([]domain.DayCount, error) {
	var result []domain.DayCount
	for rows.Next() {
		var dc domain.DayCount
		var patterns string
		if err := rows.Scan(&dc.Day, &dc.WorkstationID, &patterns, &dc.TotalMessages); err != nil {
			return nil, fmt.Errorf("failed to scan day count: %w", err)
		}
		// A record with an unparseable patterns column still contributes its
		// message total.
		if err := json.Unmarshal([]byte(patterns), &dc.Patterns); err != nil {
			dc.Patterns = make(map[string]int64)
		}
		result = append(result, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read day counts: %w", err)
	}
	return result, nil
}
