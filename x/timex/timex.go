package timex

import (
	"sync/atomic"
	"time"
)

// Clock is a free-running monotonic time source. Values are offsets from an
// arbitrary epoch (boot), never wall time.
type Clock interface {
	Now() time.Duration
}

// Monotonic reads the runtime's monotonic clock relative to its creation.
type Monotonic struct{ start time.Time }

func NewMonotonic() *Monotonic { return &Monotonic{start: time.Now()} }

func (m *Monotonic) Now() time.Duration { return time.Since(m.start) }

// Manual is a Clock that only moves when told to.
type Manual struct{ now atomic.Int64 }

func NewManual(at time.Duration) *Manual {
	m := &Manual{}
	m.Set(at)
	return m
}

func (m *Manual) Now() time.Duration      { return time.Duration(m.now.Load()) }
func (m *Manual) Set(d time.Duration)     { m.now.Store(int64(d)) }
func (m *Manual) Advance(d time.Duration) { m.now.Add(int64(d)) }

// Micros converts a microsecond count, as carried in bus descriptors, to a
// Duration.
func Micros(us uint32) time.Duration { return time.Duration(us) * time.Microsecond }
