package audit

import (
	"context"
	"testing"

	"github.com/gradekit/gradescale/internal/db"
)

func TestEventRepoAppendAndList(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:audit_test.db?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbh.Close()

	repo := NewEventRepo(dbh)
	if err := repo.Record(ctx, "reg-1", TypeDefaultSet, "scale-1", nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := repo.Record(ctx, "reg-1", TypeRangesReplaced, "scale-1", map[string]int{"count": 5}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := repo.Record(ctx, "reg-2", TypeDefaultSet, "scale-2", nil); err != nil {
		t.Fatalf("record other key: %v", err)
	}

	evs, err := repo.List(ctx, "scale-1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("events = %d, want 2", len(evs))
	}
	// newest first
	if evs[0].Type != TypeRangesReplaced {
		t.Fatalf("first event = %s", evs[0].Type)
	}
	if evs[0].DataJSON != `{"count":5}` {
		t.Fatalf("data = %s", evs[0].DataJSON)
	}
	if evs[1].Actor != "reg-1" {
		t.Fatalf("actor = %s", evs[1].Actor)
	}
}
