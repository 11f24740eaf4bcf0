// Package anim drives punch card animations one external tick at a time.
//
// Drivers (the typing reveal and the diagonal sweeps) are pure step
// functions: each Tick advances exactly one step, and nothing in this
// package sleeps or owns a timer. The Scheduler admits one driver at a
// time onto the grid it owns; the presentation layer supplies the clock.
package anim

import (
	"errors"
	"time"

	"github.com/verte-zerg/keypunch/internal/grid"
)

// Kind identifies a driver for events and scheduling decisions.
type Kind int

const (
	KindNone Kind = iota
	KindTyping
	KindStartup
	KindSleep
	KindWake
)

func (k Kind) String() string {
	switch k {
	case KindTyping:
		return "typing"
	case KindStartup:
		return "startup"
	case KindSleep:
		return "sleep"
	case KindWake:
		return "wake"
	default:
		return "none"
	}
}

// Recoverable rejections; the caller decides whether to retry with
// interrupt.
var (
	ErrBusy    = errors.New("a driver is already active")
	ErrRunning = errors.New("driver already running")
)

// Event reports what one scheduler tick produced. Column is the card
// column punched during the tick, or -1. Finished names the driver kind
// that reached its end during the tick, or KindNone. Cleared reports the
// post-hold auto-clear of a typed message.
type Event struct {
	Column   int
	Finished Kind
	Cleared  bool
}

// A Driver mutates the grid one step per tick under scheduler control.
type Driver interface {
	Kind() Kind
	// Interval is the cadence the driver is tuned for; the presentation
	// layer arms its timer from it.
	Interval() time.Duration
	// Start prepares the driver to run against g. It fails with
	// ErrRunning unless the driver is idle; Stop rearms it.
	Start(g *grid.Grid) error
	// Tick advances one step, returning the column punched (-1 when the
	// step touched no single column) and whether the driver finished.
	Tick(g *grid.Grid) (col int, done bool)
	// Stop halts the driver, leaving the grid as the last step left it.
	Stop()
}

type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateCompleted
)
