// Package anim drives punch card animations one external tick at a time.
package anim

import (
	"time"

	"github.com/verte-zerg/keypunch/internal/grid"
)

// Phase is one stage of a sweep run.
type Phase int

const (
	PhaseClearing Phase = iota
	PhaseSweeping
	PhaseFinalClearing
	PhaseFadeOut
	PhaseFadeIn
)

// fadeSteps is the length of the sleep and wake fades.
const fadeSteps = 10

// trailWidth is the lit band width of the startup sweep. Cosmetic, tuned
// by eye.
const trailWidth = 12

// Sweep walks whole-grid animations phase by phase: the three-phase
// startup wipe, or a single fade for sleep and wake. Steps address
// diagonals (cells sharing row+col), so run length depends only on grid
// geometry, never on message content. Phases advance strictly forward.
type Sweep struct {
	kind     Kind
	phases   []Phase
	interval time.Duration
	total    int // distinct diagonals: rows + cols - 1
	phase    int // index into phases
	step     int
	state    runState
}

// NewStartup returns the three-phase startup sweep for a rows × cols
// grid: a full clearing pass, a lit band sweeping corner to corner, and a
// short pass that chases the band off the far edge.
func NewStartup(rows, cols int, interval time.Duration) *Sweep {
	return &Sweep{
		kind:     KindStartup,
		phases:   []Phase{PhaseClearing, PhaseSweeping, PhaseFinalClearing},
		interval: interval,
		total:    rows + cols - 1,
	}
}

// NewFadeOut returns the sleep fade: ten ticks turning cells off by
// normalized diagonal position until the grid is dark.
func NewFadeOut(rows, cols int, interval time.Duration) *Sweep {
	return &Sweep{
		kind:     KindSleep,
		phases:   []Phase{PhaseFadeOut},
		interval: interval,
		total:    rows + cols - 1,
	}
}

// NewFadeIn returns the wake fade, the mirror of NewFadeOut: ten ticks
// lighting cells until the grid is fully lit.
func NewFadeIn(rows, cols int, interval time.Duration) *Sweep {
	return &Sweep{
		kind:     KindWake,
		phases:   []Phase{PhaseFadeIn},
		interval: interval,
		total:    rows + cols - 1,
	}
}

func (s *Sweep) Kind() Kind              { return s.kind }
func (s *Sweep) Interval() time.Duration { return s.interval }

// Phase returns the phase the next tick will execute.
func (s *Sweep) Phase() Phase {
	if s.phase >= len(s.phases) {
		return s.phases[len(s.phases)-1]
	}
	return s.phases[s.phase]
}

// Start rewinds to the first phase. Only an idle driver starts; a
// running or completed one rejects until Stop rearms it.
func (s *Sweep) Start(g *grid.Grid) error {
	if s.state != stateIdle {
		return ErrRunning
	}
	s.phase = 0
	s.step = 0
	s.state = stateRunning
	return nil
}

// Tick executes one step of the current phase.
func (s *Sweep) Tick(g *grid.Grid) (int, bool) {
	if s.state != stateRunning {
		return -1, true
	}
	s.stepPhase(g)
	s.step++
	if s.step >= s.phaseLen(s.phases[s.phase]) {
		s.phase++
		s.step = 0
		if s.phase == len(s.phases) {
			s.state = stateCompleted
			return -1, true
		}
	}
	return -1, false
}

// Stop halts the run immediately; no partial-phase rollback, the grid
// keeps the last completed step.
func (s *Sweep) Stop() { s.state = stateIdle }

func (s *Sweep) phaseLen(p Phase) int {
	switch p {
	case PhaseFinalClearing:
		return trailWidth
	case PhaseFadeOut, PhaseFadeIn:
		return fadeSteps
	default:
		return s.total
	}
}

func (s *Sweep) stepPhase(g *grid.Grid) {
	switch s.phases[s.phase] {
	case PhaseClearing:
		setDiagonal(g, s.step, false)
	case PhaseSweeping:
		setDiagonal(g, s.step, true)
		setDiagonal(g, s.step-trailWidth, false)
	case PhaseFinalClearing:
		setDiagonal(g, s.total-trailWidth+s.step, false)
	case PhaseFadeOut:
		fadeTo(g, s.step, false)
	case PhaseFadeIn:
		fadeTo(g, s.step, true)
	}
}

// setDiagonal writes every cell with row+col == d. Negative diagonals are
// skipped; cells past the right edge fall out through the grid's own
// bounds checks.
func setDiagonal(g *grid.Grid, d int, on bool) {
	if d < 0 {
		return
	}
	for r := 0; r <= d && r < g.Rows(); r++ {
		g.Set(r, d-r, on)
	}
}

// fadeTo applies fade step n: every cell whose normalized diagonal
// position falls below the step's threshold is written to on. The
// threshold rises linearly and reaches 1.0 on the final step, where every
// position (strictly below 1.0 by construction) qualifies.
func fadeTo(g *grid.Grid, n int, on bool) {
	threshold := float64(n+1) / float64(fadeSteps)
	diagonals := float64(g.Rows() + g.Cols() - 1)
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if float64(r+c)/diagonals < threshold {
				g.Set(r, c, on)
			}
		}
	}
}
