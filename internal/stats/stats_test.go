package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/keypunch/internal/model"
	"github.com/verte-zerg/keypunch/internal/punch"
)

func TestSummarize(t *testing.T) {
	displays := []model.DisplayAggregate{
		{Columns: 10, Holes: 20, DurationMs: 1000, Completed: true},
		{Columns: 30, Holes: 50, DurationMs: 3000, Completed: false},
		{Columns: 20, Holes: 30, DurationMs: 0, Completed: true},
	}
	totals := Summarize(displays)
	if totals.Displays != 3 {
		t.Fatalf("expected 3 displays, got %d", totals.Displays)
	}
	if totals.Columns != 60 {
		t.Fatalf("expected 60 columns, got %d", totals.Columns)
	}
	if totals.Holes != 100 {
		t.Fatalf("expected 100 holes, got %d", totals.Holes)
	}
	if totals.Completed != 2 {
		t.Fatalf("expected 2 completed, got %d", totals.Completed)
	}
	if math.Abs(totals.AvgColumns-20.0) > 1e-9 {
		t.Fatalf("expected avg columns 20, got %f", totals.AvgColumns)
	}
	// Only the two timed displays count: 40 columns over 4 seconds.
	if math.Abs(totals.PunchRate-10.0) > 1e-9 {
		t.Fatalf("expected punch rate 10, got %f", totals.PunchRate)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	totals := Summarize(nil)
	if totals.Displays != 0 || totals.AvgColumns != 0 || totals.PunchRate != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestLengthSeries(t *testing.T) {
	displays := []model.DisplayAggregate{
		{Columns: 5},
		{Columns: 12},
	}
	series := LengthSeries(displays)
	if len(series) != 2 || series[0] != 5 || series[1] != 12 {
		t.Fatalf("unexpected series: %v", series)
	}
}

func TestCharCounts(t *testing.T) {
	counts := CharCounts(punch.Encode("ABBA 7"))
	if len(counts) != 4 {
		t.Fatalf("expected 4 distinct characters, got %d", len(counts))
	}
	byChar := map[string]model.CharCount{}
	for _, cc := range counts {
		byChar[cc.Char] = cc
	}
	if a := byChar["A"]; a.Count != 2 || a.Holes != 4 {
		t.Fatalf("unexpected A count: %+v", a)
	}
	if b := byChar["B"]; b.Count != 2 || b.Holes != 4 {
		t.Fatalf("unexpected B count: %+v", b)
	}
	if sp := byChar[" "]; sp.Count != 1 || sp.Holes != 0 {
		t.Fatalf("unexpected space count: %+v", sp)
	}
	if seven := byChar["7"]; seven.Count != 1 || seven.Holes != 1 {
		t.Fatalf("unexpected 7 count: %+v", seven)
	}
	// First appearance order is preserved.
	if counts[0].Char != "A" || counts[1].Char != "B" {
		t.Fatalf("unexpected order: %+v", counts)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	avg := MovingAverage(values, 2)
	expected := []float64{1, 1.5, 2.5, 3.5, 4.5}
	if len(avg) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(avg))
	}
	for i := range expected {
		if math.Abs(avg[i]-expected[i]) > 1e-9 {
			t.Fatalf("at %d expected %f, got %f", i, expected[i], avg[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	values := []float64{3, 1, 4}
	avg := MovingAverage(values, 1)
	for i := range values {
		if avg[i] != values[i] {
			t.Fatalf("expected passthrough, got %v", avg)
		}
	}
}

func TestSparkline(t *testing.T) {
	line := Sparkline([]float64{0, 5, 10})
	if len(line) != 3 {
		t.Fatalf("expected 3 runes, got %q", line)
	}
	if line[0] != sparkChars[0] {
		t.Fatalf("expected min char first, got %q", line)
	}
	if line[2] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("expected max char last, got %q", line)
	}
}

func TestSparklineFlat(t *testing.T) {
	line := Sparkline([]float64{2, 2, 2, 2})
	if len(line) != 4 {
		t.Fatalf("expected 4 runes, got %q", line)
	}
	for i := 1; i < len(line); i++ {
		if line[i] != line[0] {
			t.Fatalf("expected uniform sparkline, got %q", line)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	displays := []model.DisplayAggregate{
		{Columns: 10, Holes: 15, DurationMs: 2000, Completed: true},
		{Columns: 20, Holes: 25, DurationMs: 2000, Completed: true},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, displays); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Messages: 2",
		"Columns punched: 30",
		"Holes punched: 40",
		"Completed: 2 (100%)",
		"Avg columns: 15.0",
		"Punch rate: 7.5 cols/s",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No messages recorded.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestRenderCharTable(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "A", Count: 2, Holes: 4},
		{Char: " ", Count: 5, Holes: 0},
		{Char: "B", Count: 2, Holes: 4},
	}
	var buf bytes.Buffer
	if err := RenderCharTable(&buf, aggs); err != nil {
		t.Fatalf("RenderCharTable failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[2], "<space>") {
		t.Fatalf("expected space row first, got %q", lines[2])
	}
	// Ties break alphabetically.
	if !strings.HasPrefix(lines[3], "A") || !strings.HasPrefix(lines[4], "B") {
		t.Fatalf("unexpected tie order: %q", lines)
	}
}
