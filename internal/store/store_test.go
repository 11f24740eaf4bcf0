package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/keypunch/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "keypunch.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close failed: %v", err)
		}
	})
	return st
}

func TestInsertAndListDisplays(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, text := range []string{"HELLO, WORLD.", "END OF FILE."} {
		_, err := st.InsertDisplay(ctx, model.DisplayStats{
			ShownAt:    base.Add(time.Duration(i) * time.Minute),
			Source:     "builtin",
			Text:       text,
			Columns:    len(text),
			Holes:      20 + i,
			DurationMs: 1300,
			Completed:  i == 0,
		}, nil)
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	displays, err := st.ListDisplays(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(displays) != 2 {
		t.Fatalf("expected 2 displays, got %d", len(displays))
	}
	if displays[0].Text != "HELLO, WORLD." || !displays[0].Completed {
		t.Fatalf("unexpected first display: %+v", displays[0])
	}
	if displays[1].Completed {
		t.Fatalf("expected second display marked interrupted")
	}
	if !displays[0].ShownAt.Equal(base) {
		t.Fatalf("expected shown_at round-trip, got %v", displays[0].ShownAt)
	}
}

func TestListDisplaysFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sources := []string{"builtin", "openai", "builtin"}
	for i, src := range sources {
		_, err := st.InsertDisplay(ctx, model.DisplayStats{
			ShownAt: base.Add(time.Duration(i) * time.Hour),
			Source:  src,
			Text:    "X",
			Columns: 1,
		}, nil)
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	displays, err := st.ListDisplays(ctx, model.StatsConfig{Source: "builtin"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(displays) != 2 {
		t.Fatalf("expected 2 builtin displays, got %d", len(displays))
	}

	since := base.Add(90 * time.Minute)
	displays, err = st.ListDisplays(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(displays) != 1 || displays[0].Source != "builtin" {
		t.Fatalf("expected one display after cutoff, got %+v", displays)
	}
}

func TestCharTotalsForDisplays(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id1, err := st.InsertDisplay(ctx, model.DisplayStats{
		ShownAt: time.Now().UTC(), Source: "builtin", Text: "AAB", Columns: 3,
	}, []model.CharCount{
		{Char: "A", Count: 2, Holes: 4},
		{Char: "B", Count: 1, Holes: 2},
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	id2, err := st.InsertDisplay(ctx, model.DisplayStats{
		ShownAt: time.Now().UTC(), Source: "builtin", Text: "A", Columns: 1,
	}, []model.CharCount{
		{Char: "A", Count: 1, Holes: 2},
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	totals, err := st.CharTotalsForDisplays(ctx, []int64{id1, id2})
	if err != nil {
		t.Fatalf("totals failed: %v", err)
	}
	byChar := map[string]model.CharAggregate{}
	for _, agg := range totals {
		byChar[agg.Char] = agg
	}
	if byChar["A"].Count != 3 || byChar["A"].Holes != 6 {
		t.Fatalf("unexpected totals for A: %+v", byChar["A"])
	}
	if byChar["B"].Count != 1 {
		t.Fatalf("unexpected totals for B: %+v", byChar["B"])
	}

	if totals, err := st.CharTotalsForDisplays(ctx, nil); err != nil || totals != nil {
		t.Fatalf("expected empty result for no ids, got %v, %v", totals, err)
	}
}
