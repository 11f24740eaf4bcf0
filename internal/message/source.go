// Package message supplies the text the board displays.
package message

import "context"

// Source produces the next message to punch.
type Source interface {
	// Next returns the next message text. Implementations may block on
	// I/O and honor ctx cancellation.
	Next(ctx context.Context) (string, error)
	// Name identifies the source in recorded stats.
	Name() string
}

// Static always returns the same message. Used by the one-shot renderer
// and in tests.
type Static struct {
	Text string
}

// Next returns the fixed text.
func (s Static) Next(context.Context) (string, error) { return s.Text, nil }

// Name identifies the source.
func (s Static) Name() string { return "static" }
