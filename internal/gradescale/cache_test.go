package gradescale_test

import (
	"context"
	"testing"
	"time"

	"github.com/gradekit/gradescale/internal/gradescale"
)

func TestCachingStoreInvalidation(t *testing.T) {
	ctx := context.Background()
	store := gradescale.NewCachingStore(gradescale.NewInMemoryStore(), time.Minute)

	a := seedScale(t, store, "A", "school-1", "sys-1")
	b := seedScale(t, store, "B", "school-1", "sys-1")

	if err := store.SetDefault(ctx, a.ID); err != nil {
		t.Fatalf("set default: %v", err)
	}
	def, err := store.GetDefaultScale(ctx, "school-1", "sys-1")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if def.ID != a.ID {
		t.Fatalf("default = %s, want %s", def.ID, a.ID)
	}

	// the cached default must not survive a flip
	if err := store.SetDefault(ctx, b.ID); err != nil {
		t.Fatalf("flip default: %v", err)
	}
	def, err = store.GetDefaultScale(ctx, "school-1", "sys-1")
	if err != nil {
		t.Fatalf("get default after flip: %v", err)
	}
	if def.ID != b.ID {
		t.Fatalf("stale cached default: got %s, want %s", def.ID, b.ID)
	}
}

func TestCachingStoreServesRepeatReads(t *testing.T) {
	ctx := context.Background()
	store := gradescale.NewCachingStore(gradescale.NewInMemoryStore(), time.Minute)

	s := seedScale(t, store, "A", "school-1", "sys-1")
	for i := 0; i < 3; i++ {
		got, err := store.GetScale(ctx, s.ID)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if got.ID != s.ID {
			t.Fatalf("get %d: id %s", i, got.ID)
		}
	}

	// range edits drop the cached scale
	if _, err := store.ReplaceRanges(ctx, s.ID, []gradescale.Range{
		{MinValue: 0, MaxValue: 100, Label: "ALL"},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := store.GetScale(ctx, s.ID)
	if err != nil {
		t.Fatalf("get after replace: %v", err)
	}
	if len(got.Ranges) != 1 || got.Ranges[0].Label != "ALL" {
		t.Fatalf("stale ranges: %+v", got.Ranges)
	}
}
