package gradescale_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/gradekit/gradescale/internal/db"
	"github.com/gradekit/gradescale/internal/gradescale"
)

var sqlTestSeq int

func openTestStore(t *testing.T) *gradescale.SQLStore {
	t.Helper()
	sqlTestSeq++
	dsn := fmt.Sprintf("file:gradescale_test_%d.db?mode=memory&cache=shared", sqlTestSeq)
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return gradescale.NewSQLStore(dbh, "sqlite", slog.Default())
}

func TestSQLStoreScaleRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	in := gradescale.Scale{
		Name:            "Letter",
		Type:            gradescale.TypeLetter,
		SchoolID:        "school-1",
		GradingSystemID: "sys-1",
		Ranges:          letterScale().Ranges,
	}
	saved, err := store.PutScale(ctx, in)
	if err != nil {
		t.Fatalf("put scale: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt == 0 {
		t.Fatalf("scale not normalized: %+v", saved)
	}

	got, err := store.GetScale(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get scale: %v", err)
	}
	if got.Name != "Letter" || got.Type != gradescale.TypeLetter {
		t.Fatalf("got %+v", got)
	}
	if len(got.Ranges) != len(in.Ranges) {
		t.Fatalf("ranges = %d, want %d", len(got.Ranges), len(in.Ranges))
	}
	// nullable gpa survives the round trip
	for _, r := range got.Ranges {
		if r.Label == "A" {
			if r.GPAEquiv == nil || *r.GPAEquiv != 4.0 {
				t.Fatalf("A gpa = %v", r.GPAEquiv)
			}
		}
	}

	if _, err := store.GetScale(ctx, "missing"); err != gradescale.ErrScaleNotFound {
		t.Fatalf("missing scale err = %v", err)
	}
}

func TestSQLStoreSetDefault(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	a := seedScale(t, store, "A", "school-1", "sys-1")
	b := seedScale(t, store, "B", "school-1", "sys-1")
	other := seedScale(t, store, "C", "school-2", "sys-1")

	for _, id := range []string{a.ID, a.ID, b.ID} {
		if err := store.SetDefault(ctx, id); err != nil {
			t.Fatalf("set default %s: %v", id, err)
		}
	}
	if err := store.SetDefault(ctx, other.ID); err != nil {
		t.Fatalf("set default other scope: %v", err)
	}

	def, err := store.GetDefaultScale(ctx, "school-1", "sys-1")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if def.ID != b.ID {
		t.Fatalf("default = %s, want %s", def.ID, b.ID)
	}

	gotA, _ := store.GetScale(ctx, a.ID)
	if gotA.IsDefault {
		t.Fatal("A still default after flip to B")
	}

	if err := store.SetDefault(ctx, "missing"); err != gradescale.ErrScaleNotFound {
		t.Fatalf("missing err = %v", err)
	}
}

func TestSQLStoreDeleteScale(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	a := seedScale(t, store, "A", "school-1", "sys-1")
	if err := store.SetDefault(ctx, a.ID); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if err := store.DeleteScale(ctx, a.ID); err != gradescale.ErrScaleIsDefault {
		t.Fatalf("delete default err = %v, want ErrScaleIsDefault", err)
	}

	b := seedScale(t, store, "B", "school-1", "sys-1")
	if err := store.DeleteScale(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetScale(ctx, b.ID); err != gradescale.ErrScaleNotFound {
		t.Fatalf("deleted scale err = %v", err)
	}
}

func TestSQLStoreReplaceRangesAndRangeCRUD(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	s := seedScale(t, store, "A", "school-1", "sys-1")
	updated, err := store.ReplaceRanges(ctx, s.ID, []gradescale.Range{
		{MinValue: 50, MaxValue: 100, Label: "P", IsPassing: true, Order: 1},
		{MinValue: 0, MaxValue: 49.99, Label: "F", Order: 2},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(updated.Ranges) != 2 {
		t.Fatalf("ranges = %d", len(updated.Ranges))
	}

	r, err := store.PutRange(ctx, s.ID, gradescale.Range{
		MinValue: 100.01, MaxValue: 110, Label: "EX", Order: 0,
	})
	if err != nil {
		t.Fatalf("put range: %v", err)
	}
	got, _ := store.GetScale(ctx, s.ID)
	if len(got.Ranges) != 3 {
		t.Fatalf("ranges after insert = %d", len(got.Ranges))
	}
	// ord asc puts the new band first
	if got.Ranges[0].Label != "EX" {
		t.Fatalf("order: first range %s", got.Ranges[0].Label)
	}

	if err := store.DeleteRange(ctx, s.ID, r.ID); err != nil {
		t.Fatalf("delete range: %v", err)
	}
	if err := store.DeleteRange(ctx, s.ID, r.ID); err != gradescale.ErrRangeNotFound {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestSQLStoreListScales(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	seedScale(t, store, "A", "school-1", "sys-1")
	seedScale(t, store, "B", "school-1", "sys-2")
	seedScale(t, store, "C", "school-2", "sys-1")

	all, err := store.ListScales(ctx, gradescale.ListOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d", len(all))
	}

	bySchool, err := store.ListScales(ctx, gradescale.ListOpts{SchoolID: "school-1"})
	if err != nil {
		t.Fatalf("list school: %v", err)
	}
	if len(bySchool) != 2 {
		t.Fatalf("school-1 = %d", len(bySchool))
	}

	byScope, err := store.ListScales(ctx, gradescale.ListOpts{SchoolID: "school-1", GradingSystemID: "sys-2"})
	if err != nil {
		t.Fatalf("list scope: %v", err)
	}
	if len(byScope) != 1 || byScope[0].Name != "B" {
		t.Fatalf("scope = %+v", byScope)
	}
}

func TestSQLStoreListScalesPagination(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	seedScale(t, store, "A", "school-1", "sys-1")
	seedScale(t, store, "B", "school-1", "sys-1")
	seedScale(t, store, "C", "school-1", "sys-1")

	// offset without a limit must not be a syntax error on sqlite
	rest, err := store.ListScales(ctx, gradescale.ListOpts{Offset: 1})
	if err != nil {
		t.Fatalf("offset-only list: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("offset-only = %d, want 2", len(rest))
	}

	page, err := store.ListScales(ctx, gradescale.ListOpts{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("page = %d, want 1", len(page))
	}

	capped, err := store.ListScales(ctx, gradescale.ListOpts{Limit: 2})
	if err != nil {
		t.Fatalf("limit list: %v", err)
	}
	if len(capped) != 2 {
		t.Fatalf("limit = %d, want 2", len(capped))
	}
}

func TestSQLStoreAmbiguousDefaultPicksLowestID(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	// force corrupt data: two defaults in one scope
	for _, id := range []string{"zz-scale", "aa-scale"} {
		if _, err := store.PutScale(ctx, gradescale.Scale{
			ID:              id,
			Name:            id,
			Type:            gradescale.TypeLetter,
			SchoolID:        "school-1",
			GradingSystemID: "sys-1",
			IsDefault:       true,
			Ranges:          letterScale().Ranges,
		}); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	def, err := store.GetDefaultScale(ctx, "school-1", "sys-1")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if def.ID != "aa-scale" {
		t.Fatalf("default = %s, want aa-scale", def.ID)
	}
}
