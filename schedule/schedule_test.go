package schedule

import (
	"context"
	"testing"
	"time"

	"epclock/internal/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

func TestDelay(t *testing.T) {
	tests := []struct {
		offset time.Duration
		want   time.Duration
	}{
		{730 * time.Millisecond, 270 * time.Millisecond},
		{0, time.Second},
		{999 * time.Millisecond, time.Millisecond},
		{730*time.Millisecond + 900*time.Microsecond, 270 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := Delay(base.Add(tt.offset)); got != tt.want {
			t.Fatalf("Delay(+%v) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

type result struct {
	tick Tick
	err  error
}

func nextAsync(ctx context.Context, s *Scheduler) <-chan result {
	out := make(chan result, 1)
	go func() {
		tick, err := s.Next(ctx)
		out <- result{tick, err}
	}()
	return out
}

func wait(t *testing.T, ch <-chan result) result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("Next did not return")
		return result{}
	}
}

func TestNextWakesOnSecondBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := clock.Fake(base.Add(730 * time.Millisecond))
	s := New(fake)
	s.Start(ctx)

	ch := nextAsync(ctx, s)
	fake.WaitForTimers(1)
	fake.Advance(269 * time.Millisecond)
	select {
	case <-ch:
		t.Fatal("woke early")
	default:
	}
	fake.Advance(time.Millisecond)

	r := wait(t, ch)
	require.NoError(t, r.err)
	assert.Equal(t, base.Add(time.Second), r.tick.At)

	ch = nextAsync(ctx, s)
	fake.WaitForTimers(1)
	fake.Advance(time.Second)
	r = wait(t, ch)
	require.NoError(t, r.err)
	assert.Equal(t, base.Add(2*time.Second), r.tick.At)
}

func TestNextRejectsSecondWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := clock.Fake(base)
	s := New(fake)
	s.Start(ctx)

	first := nextAsync(ctx, s)
	fake.WaitForTimers(1)

	_, err := s.Next(ctx)
	require.ErrorIs(t, err, ErrBusy)

	fake.Advance(time.Second)
	require.NoError(t, wait(t, first).err)
}

func TestNextAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(clock.Fake(base))

	_, err := s.Next(ctx)
	require.ErrorIs(t, err, ErrStopped, "not started")

	s.Start(ctx)
	cancel()
	<-s.Done()

	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, ErrStopped)
}

func TestNextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := clock.Fake(base)
	s := New(fake)
	s.Start(ctx)

	waitCtx, stop := context.WithCancel(ctx)
	ch := nextAsync(waitCtx, s)
	fake.WaitForTimers(1)
	stop()

	r := wait(t, ch)
	require.ErrorIs(t, r.err, ErrStopped)
	require.ErrorIs(t, r.err, context.Canceled)

	// The abandoned wait still fires; its tick must not satisfy the next one.
	fake.Advance(time.Second)
	ch = nextAsync(ctx, s)
	fake.WaitForTimers(1)
	select {
	case <-ch:
		t.Fatal("stale tick delivered")
	default:
	}
	fake.Advance(time.Second)
	r = wait(t, ch)
	require.NoError(t, r.err)
	assert.Equal(t, base.Add(2*time.Second), r.tick.At)
}
