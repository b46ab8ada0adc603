// Package chipset models the host power states the embedded controller
// reports to its drivers.
package chipset

// State is a bitmask so callers can test against a family of states.
type State uint8

const (
	HardOff State = 1 << iota // G3
	SoftOff                   // S5
	Suspend                   // S3
	On                        // S0
	Standby                   // S0ix

	AnyOff     = HardOff | SoftOff
	AnySuspend = Suspend | Standby
)

func (s State) String() string {
	switch s {
	case HardOff:
		return "hard_off"
	case SoftOff:
		return "soft_off"
	case Suspend:
		return "suspend"
	case On:
		return "on"
	case Standby:
		return "standby"
	default:
		return "unknown"
	}
}

// Reporter answers whether the chipset currently sits in any of the states
// in mask.
type Reporter interface {
	InState(mask State) bool
}

// Fixed is a Reporter pinned to one state. Useful for boards without a
// power sequencer and for tests.
type Fixed State

func (f Fixed) InState(mask State) bool { return State(f)&mask != 0 }

// Parse maps a state name back to its State. Unknown names report false.
func Parse(name string) (State, bool) {
	for _, s := range []State{HardOff, SoftOff, Suspend, On, Standby} {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}
