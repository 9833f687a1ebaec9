package turso

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/rightcount/internal/domain"
	"github.com/emiliopalmerini/rightcount/internal/migrate"
)

var dbCounter int

func setupTestRepo(t *testing.T) *DayCountRepository {
	t.Helper()

	// Named in-memory databases keep tests isolated from each other.
	dbCounter++
	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared", dbCounter)
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrate.RunAll(context.Background(), db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewDayCountRepository(db)
}

func TestDayCountRepository_UpsertAndGetDay(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	dc := domain.DayCount{
		Day:           "2025-01-01",
		WorkstationID: "ws-1",
		Patterns:      map[string]int64{"absolutely": 3, "right": 0},
		TotalMessages: 12,
	}
	if err := repo.Upsert(ctx, dc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.GetDay(ctx, "2025-01-01")
	if err != nil {
		t.Fatalf("GetDay() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if !reflect.DeepEqual(got[0], dc) {
		t.Errorf("GetDay() = %+v, want %+v", got[0], dc)
	}
}

func TestDayCountRepository_UpsertOverwrites(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first := domain.DayCount{
		Day:           "2025-01-01",
		WorkstationID: "ws-1",
		Patterns:      map[string]int64{"absolutely": 3},
		TotalMessages: 10,
	}
	second := domain.DayCount{
		Day:           "2025-01-01",
		WorkstationID: "ws-1",
		Patterns:      map[string]int64{"absolutely": 5, "perfect": 1},
		TotalMessages: 14,
	}

	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	got, err := repo.GetDay(ctx, "2025-01-01")
	if err != nil {
		t.Fatalf("GetDay() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records after repeat upsert, want 1", len(got))
	}
	if got[0].Patterns["absolutely"] != 5 {
		t.Errorf("absolutely = %d, want 5 (replaced, not summed)", got[0].Patterns["absolutely"])
	}
	if got[0].TotalMessages != 14 {
		t.Errorf("total_messages = %d, want 14", got[0].TotalMessages)
	}
}

func TestDayCountRepository_GetDayOrdersByWorkstation(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for _, ws := range []string{"B", "A", "C"} {
		dc := domain.DayCount{
			Day:           "2025-01-01",
			WorkstationID: ws,
			Patterns:      map[string]int64{"right": 1},
			TotalMessages: 1,
		}
		if err := repo.Upsert(ctx, dc); err != nil {
			t.Fatalf("Upsert(%s) error = %v", ws, err)
		}
	}

	got, err := repo.GetDay(ctx, "2025-01-01")
	if err != nil {
		t.Fatalf("GetDay() error = %v", err)
	}
	var ids []string
	for _, dc := range got {
		ids = append(ids, dc.WorkstationID)
	}
	if !reflect.DeepEqual(ids, []string{"A", "B", "C"}) {
		t.Errorf("workstation order = %v, want [A B C]", ids)
	}
}

func TestDayCountRepository_GetAll(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	records := []domain.DayCount{
		{Day: "2025-01-02", WorkstationID: "A", Patterns: map[string]int64{"right": 4}, TotalMessages: 7},
		{Day: "2025-01-01", WorkstationID: "B", Patterns: map[string]int64{"perfect": 2}, TotalMessages: 5},
		{Day: "2025-01-01", WorkstationID: "A", Patterns: map[string]int64{"perfect": 3}, TotalMessages: 10},
	}
	for _, dc := range records {
		if err := repo.Upsert(ctx, dc); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	got, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	wantOrder := []string{"2025-01-01|A", "2025-01-01|B", "2025-01-02|A"}
	for i, want := range wantOrder {
		key := got[i].Day + "|" + got[i].WorkstationID
		if key != want {
			t.Errorf("records[%d] = %s, want %s", i, key, want)
		}
	}
}

func TestDayCountRepository_GetDayEmpty(t *testing.T) {
	repo := setupTestRepo(t)

	got, err := repo.GetDay(context.Background(), "2025-01-01")
	if err != nil {
		t.Fatalf("GetDay() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records for empty day, want 0", len(got))
	}
}
