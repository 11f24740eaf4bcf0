// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"github.com/verte-zerg/keypunch/internal/model"
)

// RenderLengthChart plots message lengths over display order, smoothed
// with a moving average when window > 1. Fewer than two displays make a
// pointless chart, so nothing is printed.
func RenderLengthChart(w io.Writer, displays []model.DisplayAggregate, width, height, window int) error {
	if len(displays) < 2 {
		return nil
	}
	series := MovingAverage(LengthSeries(displays), window)
	caption := "Message length (columns)"
	if window > 1 {
		caption = fmt.Sprintf("Message length (columns, window %d)", window)
	}
	plot := asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
	if _, err := fmt.Fprintln(w, plot); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
