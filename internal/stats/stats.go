// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/keypunch/internal/model"
	"github.com/verte-zerg/keypunch/internal/punch"
)

const sparkChars = " .:-=+*#%@"

// Totals summarizes a set of displays.
type Totals struct {
	Displays   int
	Columns    int
	Holes      int
	Completed  int
	AvgColumns float64
	PunchRate  float64 // columns per second across timed displays
}

// Summarize computes totals over displays.
func Summarize(displays []model.DisplayAggregate) Totals {
	t := Totals{Displays: len(displays)}
	var timedCols, timedMs int64
	for _, d := range displays {
		t.Columns += d.Columns
		t.Holes += d.Holes
		if d.Completed {
			t.Completed++
		}
		if d.DurationMs > 0 {
			timedCols += int64(d.Columns)
			timedMs += d.DurationMs
		}
	}
	if t.Displays > 0 {
		t.AvgColumns = float64(t.Columns) / float64(t.Displays)
	}
	if timedMs > 0 {
		t.PunchRate = float64(timedCols) / (float64(timedMs) / 1000.0)
	}
	return t
}

// LengthSeries extracts per-display column counts in display order.
func LengthSeries(displays []model.DisplayAggregate) []float64 {
	out := make([]float64, len(displays))
	for i, d := range displays {
		out[i] = float64(d.Columns)
	}
	return out
}

// CharCounts tallies the per-character punches of an encoded message.
func CharCounts(m punch.Message) []model.CharCount {
	counts := map[rune]*model.CharCount{}
	order := []rune{}
	for _, ch := range m.Text() {
		cc, ok := counts[ch]
		if !ok {
			cc = &model.CharCount{Char: string(ch)}
			counts[ch] = cc
			order = append(order, ch)
		}
		cc.Count++
	}
	out := make([]model.CharCount, 0, len(order))
	for _, ch := range order {
		cc := counts[ch]
		cc.Holes = cc.Count * len(punch.RowsFor(ch))
		out = append(out, *cc)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for displays.
func RenderSummary(w io.Writer, displays []model.DisplayAggregate) error {
	if len(displays) == 0 {
		_, err := fmt.Fprintln(w, "No messages recorded.")
		return err
	}
	t := Summarize(displays)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Messages: %d\n", t.Displays); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Columns punched: %d\n", t.Columns); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Holes punched: %d\n", t.Holes); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed: %d (%.0f%%)\n", t.Completed, completionPct(t)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg columns: %.1f\n", t.AvgColumns); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Punch rate: %.1f cols/s\n", t.PunchRate); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func completionPct(t Totals) float64 {
	if t.Displays == 0 {
		return 0
	}
	return float64(t.Completed) / float64(t.Displays) * 100
}

// RenderCharTable prints per-character punch tallies, most punched first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	rows := make([]model.CharAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Char < rows[j].Char
		}
		return rows[i].Count > rows[j].Count
	})

	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-7s %8s %8s\n", "Char", "Count", "Holes"); err != nil {
		return err
	}
	for _, r := range rows {
		label := r.Char
		if label == " " {
			label = "<space>"
		}
		if _, err := fmt.Fprintf(w, "%-7s %8d %8d\n", label, r.Count, r.Holes); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
