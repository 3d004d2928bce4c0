// Package schedule wakes the clock loop on each second boundary.
//
// A Scheduler runs one goroutine for its whole life. The loop arms a wait
// with Next, the goroutine sleeps until the next whole second of the
// injected clock and hands a Tick back. At most one wait is outstanding.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"epclock/internal/clock"
)

var (
	// ErrStopped is returned when the scheduler is not running or the
	// wait was cancelled.
	ErrStopped = errors.New("schedule: stopped")
	// ErrBusy is returned when Next is called while a wait is pending.
	ErrBusy = errors.New("schedule: wait already pending")
)

// Tick reports that a second boundary was reached.
type Tick struct {
	// At is the boundary the wait was aimed at.
	At time.Time

	seq uint64
}

// Delay returns how long to sleep from t to the next whole second.
// Sub-millisecond precision is dropped, so t on an exact boundary waits a
// full second.
func Delay(t time.Time) time.Duration {
	ms := t.Nanosecond() / int(time.Millisecond)
	return time.Second - time.Duration(ms)*time.Millisecond
}

// Scheduler produces Ticks on demand.
type Scheduler struct {
	clock clock.Clock

	arm   chan uint64
	ticks chan Tick
	done  chan struct{}

	started atomic.Bool
	pending atomic.Bool
	seq     uint64
}

// New returns a scheduler reading time from c. Call Start before Next.
func New(c clock.Clock) *Scheduler {
	return &Scheduler{
		clock: c,
		arm:   make(chan uint64, 1),
		ticks: make(chan Tick, 1),
		done:  make(chan struct{}),
	}
}

// Start launches the timer goroutine. It exits when ctx is done. Calling
// Start again has no effect.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run(ctx)
}

// Done is closed once the timer goroutine has exited.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	for {
		var seq uint64
		select {
		case <-ctx.Done():
			return
		case seq = <-s.arm:
		}

		now := s.clock.Now()
		d := Delay(now)
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(d):
		}

		select {
		case <-ctx.Done():
			return
		case s.ticks <- Tick{At: now.Add(d), seq: seq}:
		}
	}
}

// Next arms one wait and blocks until its Tick arrives. The delay is
// computed when the wait is armed, so a slow caller never drifts.
func (s *Scheduler) Next(ctx context.Context) (Tick, error) {
	if !s.started.Load() {
		return Tick{}, ErrStopped
	}
	if !s.pending.CompareAndSwap(false, true) {
		return Tick{}, ErrBusy
	}
	defer s.pending.Store(false)

	s.seq++
	seq := s.seq
	select {
	case s.arm <- seq:
	case <-s.done:
		return Tick{}, ErrStopped
	case <-ctx.Done():
		return Tick{}, fmt.Errorf("%w: %w", ErrStopped, ctx.Err())
	}

	for {
		select {
		case t := <-s.ticks:
			// Ticks for waits whose caller gave up are discarded.
			if t.seq == seq {
				return t, nil
			}
		case <-s.done:
			return Tick{}, ErrStopped
		case <-ctx.Done():
			return Tick{}, fmt.Errorf("%w: %w", ErrStopped, ctx.Err())
		}
	}
}
