package punch

import (
	"strings"
	"testing"
)

func TestEncodeEmptyInput(t *testing.T) {
	m := Encode("")
	if m.Len() != 0 {
		t.Fatalf("expected zero-length message, got %d columns", m.Len())
	}
	if m.Text() != "" {
		t.Fatalf("expected empty text, got %q", m.Text())
	}
}

func TestEncodeUppercasesInput(t *testing.T) {
	m := Encode("hi")
	if m.Text() != "HI" {
		t.Fatalf("expected text %q, got %q", "HI", m.Text())
	}
	assertColumn(t, m, 0, []int{0, 10}) // H = rows 12,8
	assertColumn(t, m, 1, []int{0, 11}) // I = rows 12,9
}

func TestEncodeBlankColumns(t *testing.T) {
	m := Encode("A B")
	if m.Len() != 3 {
		t.Fatalf("expected 3 columns, got %d", m.Len())
	}
	if cols := m.Column(1); cols != nil {
		t.Fatalf("expected blank column for space, got %v", cols)
	}
	// Unsupported characters occupy a column but punch nothing.
	m = Encode("A*B")
	if m.Len() != 3 {
		t.Fatalf("expected 3 columns, got %d", m.Len())
	}
	if cols := m.Column(1); cols != nil {
		t.Fatalf("expected blank column for unsupported char, got %v", cols)
	}
}

func TestEncodeTruncatesLongInput(t *testing.T) {
	m := Encode(strings.Repeat("x", 81))
	if m.Len() != MaxColumns {
		t.Fatalf("expected %d columns, got %d", MaxColumns, m.Len())
	}
	if !strings.HasSuffix(m.Text(), "...") {
		t.Fatalf("expected text ending in truncation marker, got %q", m.Text())
	}
	if m.Text()[:77] != strings.Repeat("X", 77) {
		t.Fatalf("expected 77 source characters before the marker, got %q", m.Text())
	}
	// Exactly 80 characters stay untouched.
	m = Encode(strings.Repeat("x", 80))
	if m.Len() != MaxColumns {
		t.Fatalf("expected %d columns, got %d", MaxColumns, m.Len())
	}
	if strings.HasSuffix(m.Text(), "...") {
		t.Fatalf("80-character input must not be truncated, got %q", m.Text())
	}
}

func TestEncodeColumnBounds(t *testing.T) {
	m := Encode("A")
	if m.Column(-1) != nil || m.Column(1) != nil {
		t.Fatalf("expected nil for out-of-range columns")
	}
}

func TestEncodeHoleCount(t *testing.T) {
	// A = 2 holes, space = 0, 7 = 1, . = 3.
	m := Encode("A 7.")
	if got := m.Holes(); got != 6 {
		t.Fatalf("expected 6 holes, got %d", got)
	}
}

func assertColumn(t *testing.T, m Message, i int, want []int) {
	t.Helper()
	got := m.Column(i)
	if len(got) != len(want) {
		t.Fatalf("column %d = %v, expected %v", i, got, want)
	}
	for j := range got {
		if got[j] != want[j] {
			t.Fatalf("column %d = %v, expected %v", i, got, want)
		}
	}
}
