// Package anim drives punch card animations one external tick at a time.
package anim

import (
	"time"

	"github.com/verte-zerg/keypunch/internal/grid"
)

// Scheduler admits one driver at a time onto the grid it owns. Every grid
// mutation flows through Tick, so two animations can never write in the
// same tick. The scheduler has no clock of its own; delays such as the
// post-typing hold are counted in ticks between drivers.
type Scheduler struct {
	grid    *grid.Grid
	driver  Driver
	hold    int // ticks to keep a completed typed message displayed
	holding int // remaining hold ticks
}

// NewScheduler returns a scheduler owning g.
func NewScheduler(g *grid.Grid) *Scheduler {
	return &Scheduler{grid: g}
}

// SetHold keeps a completed typed message on the grid for n extra ticks
// before the scheduler clears it. Zero disables the hold.
func (s *Scheduler) SetHold(n int) { s.hold = n }

// Grid returns the grid the scheduler drives.
func (s *Scheduler) Grid() *grid.Grid { return s.grid }

// Request admits d. With a driver active it fails with ErrBusy unless
// interrupt is set, in which case the active driver is stopped where it
// stands and d starts on the same grid. A pending hold never blocks a
// request; it is abandoned.
func (s *Scheduler) Request(d Driver, interrupt bool) error {
	if s.driver != nil {
		if !interrupt {
			return ErrBusy
		}
		s.driver.Stop()
		s.driver = nil
	}
	s.holding = 0
	if err := d.Start(s.grid); err != nil {
		return err
	}
	s.driver = d
	return nil
}

// Tick advances the active driver one step, or counts down a pending
// hold. Ticking an idle scheduler is a no-op.
func (s *Scheduler) Tick() Event {
	ev := Event{Column: -1}
	if s.driver == nil {
		if s.holding > 0 {
			s.holding--
			if s.holding == 0 {
				s.grid.Clear()
				ev.Cleared = true
			}
		}
		return ev
	}
	col, done := s.driver.Tick(s.grid)
	ev.Column = col
	if done {
		ev.Finished = s.driver.Kind()
		if ev.Finished == KindTyping && s.hold > 0 {
			s.holding = s.hold
		}
		s.driver = nil
	}
	return ev
}

// Stop halts the active driver and abandons any pending hold, leaving the
// grid as the last step left it.
func (s *Scheduler) Stop() {
	if s.driver != nil {
		s.driver.Stop()
		s.driver = nil
	}
	s.holding = 0
}

// Active reports the running driver's kind, KindNone when idle or merely
// holding.
func (s *Scheduler) Active() Kind {
	if s.driver == nil {
		return KindNone
	}
	return s.driver.Kind()
}

// Busy reports whether the scheduler still wants ticks: a driver is
// running or a hold is counting down.
func (s *Scheduler) Busy() bool { return s.driver != nil || s.holding > 0 }

// Interval returns the active driver's cadence, 0 when no driver runs.
func (s *Scheduler) Interval() time.Duration {
	if s.driver == nil {
		return 0
	}
	return s.driver.Interval()
}
