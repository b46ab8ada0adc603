package peci

import (
	"time"

	"ecpeci/chipset"
	"ecpeci/errcode"
)

// Standby sampling policy: after a quiet Window, at most Budget samples
// before the window restarts.
const (
	StandbyWindow = 7 * time.Second
	StandbyBudget = 3
)

// Governor caps how often the CPU temperature is sampled while the host is
// in standby. The zero value is ready to use with the standard policy.
//
// Its state persists across calls and belongs to a single caller.
type Governor struct {
	Window time.Duration
	Budget int

	last  time.Duration
	count int
}

// Allow reports whether a sample may be taken at now. A denial is
// errcode.NotPowered.
//
// In standby the call that pushes the count past the budget is itself
// denied and opens the next window.
func (g *Governor) Allow(now time.Duration, cs chipset.Reporter) error {
	window, budget := g.Window, g.Budget
	if window <= 0 {
		window = StandbyWindow
	}
	if budget <= 0 {
		budget = StandbyBudget
	}

	switch {
	case cs.InState(chipset.AnyOff):
		return errcode.NotPowered
	case cs.InState(chipset.Standby):
		if now-g.last < window {
			return errcode.NotPowered
		}
		g.count++
		if g.count > budget {
			g.count = 0
			g.last = now
			return errcode.NotPowered
		}
	default:
		g.count = 0
		g.last = now
	}
	return nil
}

// State exposes the window start and the count within it.
func (g *Governor) State() (last time.Duration, count int) { return g.last, g.count }
