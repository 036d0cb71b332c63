package jitcore

import (
	"context"
	"sync/atomic"
	"time"
)

// Clock abstracts timed waits so callers can poll with bounded latency and
// tests can substitute a fast clock instead of sleeping for real.
type Clock interface {
	// Wait blocks for d or until ctx is done, whichever comes first.
	// It returns ctx.Err() when the context ended the wait.
	Wait(ctx context.Context, d time.Duration) error
}

// SystemClock returns a Clock backed by real timers.
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Flag is a boolean toggle shared across goroutines. It exists for engine
// modes like compile-the-world that must be suppressed for the duration of a
// scope and restored on every exit path.
type Flag struct {
	v atomic.Bool
}

// NewFlag creates a Flag with the given initial value.
func NewFlag(initial bool) *Flag {
	f := &Flag{}
	f.v.Store(initial)
	return f
}

// Enabled reports the current value.
func (f *Flag) Enabled() bool {
	if f == nil {
		return false
	}
	return f.v.Load()
}

// Set stores a new value.
func (f *Flag) Set(v bool) {
	f.v.Store(v)
}

// Suppress clears the flag and returns a func that restores the previous
// value. Callers defer the restore so the flag survives early returns:
//
//	defer f.Suppress()()
//
// Suppress on a nil Flag is a no-op.
func (f *Flag) Suppress() (restore func()) {
	if f == nil {
		return func() {}
	}
	prev := f.v.Swap(false)
	return func() { f.v.Store(prev) }
}

// Ticks is a process-wide monotonic counter. One instance is shared by every
// compiler backend in the engine; each backend attributes its own work to its
// private counters and bumps the shared Ticks alongside.
type Ticks struct {
	n atomic.Uint64
}

// Inc adds one tick.
func (t *Ticks) Inc() {
	t.n.Add(1)
}

// Load returns the current tick count.
func (t *Ticks) Load() uint64 {
	return t.n.Load()
}
