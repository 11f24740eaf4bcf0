// Package anim drives punch card animations one external tick at a time.
package anim

import (
	"time"

	"github.com/verte-zerg/keypunch/internal/grid"
	"github.com/verte-zerg/keypunch/internal/punch"
)

// Typing reveals an encoded message column by column, left to right. Each
// tick writes every display row of one column, so holes left over from
// earlier content are blanked explicitly rather than merely not re-lit.
type Typing struct {
	msg      punch.Message
	interval time.Duration
	cursor   int
	state    runState
}

// NewTyping returns a typing driver for msg, ticked at interval.
func NewTyping(msg punch.Message, interval time.Duration) *Typing {
	return &Typing{msg: msg, interval: interval}
}

func (t *Typing) Kind() Kind              { return KindTyping }
func (t *Typing) Interval() time.Duration { return t.interval }

// Start clears the grid and rewinds the cursor. Only an idle driver
// starts; a running or completed one rejects until Stop rearms it.
func (t *Typing) Start(g *grid.Grid) error {
	if t.state != stateIdle {
		return ErrRunning
	}
	g.Clear()
	t.cursor = 0
	t.state = stateRunning
	return nil
}

// Tick punches the cursor column. A zero-length message completes on the
// first tick without touching the grid, and ticks after completion
// mutate nothing.
func (t *Typing) Tick(g *grid.Grid) (int, bool) {
	if t.state != stateRunning {
		return -1, true
	}
	if t.cursor >= t.msg.Len() {
		t.state = stateCompleted
		return -1, true
	}
	col := t.cursor
	rows := t.msg.Column(col)
	for r := 0; r < g.Rows(); r++ {
		g.Set(r, col, containsRow(rows, r))
	}
	t.cursor++
	if t.cursor == t.msg.Len() {
		t.state = stateCompleted
		return col, true
	}
	return col, false
}

// Stop forces the driver idle; the grid keeps whatever is punched.
func (t *Typing) Stop() { t.state = stateIdle }

// Cursor returns the next column to punch.
func (t *Typing) Cursor() int { return t.cursor }

func containsRow(rows []int, r int) bool {
	for _, v := range rows {
		if v == r {
			return true
		}
	}
	return false
}
