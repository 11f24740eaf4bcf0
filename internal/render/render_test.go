package render

import (
	"strings"
	"testing"

	"github.com/verte-zerg/keypunch/internal/grid"
	"github.com/verte-zerg/keypunch/internal/punch"
)

func punchedGrid(text string) (*grid.Grid, punch.Message) {
	msg := punch.Encode(text)
	g := grid.New(punch.DisplayRows, msg.Len())
	for col := 0; col < msg.Len(); col++ {
		for _, row := range msg.Column(col) {
			g.Set(row, col, true)
		}
	}
	return g, msg
}

func TestCardPlain(t *testing.T) {
	g, msg := punchedGrid("A1")
	out := Card(g, msg.Text(), Options{})
	lines := strings.Split(out, "\n")
	if len(lines) != 13 {
		t.Fatalf("expected 13 lines, got %d", len(lines))
	}
	if lines[0] != "     A1" {
		t.Fatalf("unexpected printed row: %q", lines[0])
	}
	// A punches rows 12 and 1; 1 punches row 1 only.
	if lines[1] != "12 │ █·" {
		t.Fatalf("unexpected row 12: %q", lines[1])
	}
	if lines[2] != "11 │ ··" {
		t.Fatalf("unexpected row 11: %q", lines[2])
	}
	if lines[3] != " 0 │ ··" {
		t.Fatalf("unexpected row 0: %q", lines[3])
	}
	if lines[4] != " 1 │ ██" {
		t.Fatalf("unexpected row 1: %q", lines[4])
	}
	for i := 5; i < 13; i++ {
		if lines[i][len(lines[i])-len("··"):] != "··" {
			t.Fatalf("expected blank cells on line %d: %q", i, lines[i])
		}
	}
}

func TestCardPartialPrint(t *testing.T) {
	g, _ := punchedGrid("OK")
	out := Card(g, "O", Options{})
	lines := strings.Split(out, "\n")
	if lines[0] != "     O" {
		t.Fatalf("expected only the punched prefix printed, got %q", lines[0])
	}
}

func TestCardRowLabels(t *testing.T) {
	g := grid.NewCard()
	out := Card(g, "", Options{})
	lines := strings.Split(out, "\n")
	want := []string{"12", "11", " 0", " 1", " 2", " 3", " 4", " 5", " 6", " 7", " 8", " 9"}
	for i, label := range want {
		if !strings.HasPrefix(lines[i+1], label+" │ ") {
			t.Fatalf("expected label %q on line %d, got %q", label, i+1, lines[i+1])
		}
	}
}

func TestCardWideRunePrintsAsSpace(t *testing.T) {
	g, msg := punchedGrid("A習B")
	out := Card(g, msg.Text(), Options{})
	lines := strings.Split(out, "\n")
	if lines[0] != "     A B" {
		t.Fatalf("expected wide rune blanked, got %q", lines[0])
	}
}

func TestCardWidth(t *testing.T) {
	if got := CardWidth(80); got != 85 {
		t.Fatalf("expected width 85, got %d", got)
	}
}

func TestTruncateWidth(t *testing.T) {
	if got := TruncateWidth("HELLO", 10); got != "HELLO" {
		t.Fatalf("expected untouched string, got %q", got)
	}
	got := TruncateWidth("HELLO WORLD", 6)
	if got != "HELLO…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := TruncateWidth("HELLO", 0); got != "" {
		t.Fatalf("expected empty string for zero width, got %q", got)
	}
}

func TestTruncateWidthStyledInput(t *testing.T) {
	// Escape sequences occupy no cells; only the text counts.
	styled := "\x1b[38;5;240mHELLO WORLD\x1b[0m"
	if got := TruncateWidth(styled, 15); got != styled {
		t.Fatalf("expected styled string within width untouched, got %q", got)
	}
	want := "\x1b[38;5;240mHELLO WOR…\x1b[0m"
	if got := TruncateWidth(styled, 10); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
