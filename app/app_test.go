package app

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"epclock/face"
	"epclock/gfx"
	"epclock/internal/clock"
	"epclock/mono"
	"epclock/refresh"
	"epclock/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hms(h, m, s int) time.Time {
	return time.Date(2024, time.June, 1, h, m, s, 0, time.UTC)
}

// scriptedWaker jumps a fake clock to the next scripted time on every Next.
type scriptedWaker struct {
	clock *clock.FakeClock
	times []time.Time
	err   error
}

func (w *scriptedWaker) Start(context.Context) {}

func (w *scriptedWaker) Next(ctx context.Context) (schedule.Tick, error) {
	if len(w.times) == 0 {
		if w.err != nil {
			return schedule.Tick{}, w.err
		}
		<-ctx.Done()
		return schedule.Tick{}, schedule.ErrStopped
	}
	t := w.times[0]
	w.times = w.times[1:]
	w.clock.Set(t)
	return schedule.Tick{At: t}, nil
}

type recorder struct {
	events []string
}

// surface logs Clear and Draw before forwarding to the buffer.
type surface struct {
	*mono.Buffer
	rec     *recorder
	drawErr error
}

func (s *surface) Clear(c gfx.Color) error {
	s.rec.events = append(s.rec.events, "clear")
	return s.Buffer.Clear(c)
}

func (s *surface) Draw(b gfx.Batch) error {
	s.rec.events = append(s.rec.events, "draw")
	if s.drawErr != nil {
		return s.drawErr
	}
	return s.Buffer.Draw(b)
}

type display struct {
	rec    *recorder
	modes  []refresh.Mode
	ink    []int
	pushFn func(refresh.Mode) error
}

func (d *display) PushFrame(buf *mono.Buffer, mode refresh.Mode) error {
	d.rec.events = append(d.rec.events, "push:"+mode.String())
	d.modes = append(d.modes, mode)
	d.ink = append(d.ink, buf.Count(gfx.On))
	if d.pushFn != nil {
		return d.pushFn(mode)
	}
	return nil
}

type observer struct {
	at     []time.Time
	frames []refresh.Mode
	late   []time.Duration
}

func (o *observer) FramePushed(at time.Time, mode refresh.Mode, _, _ time.Duration) {
	o.at = append(o.at, at)
	o.frames = append(o.frames, mode)
}

func (o *observer) TickLate(d time.Duration) { o.late = append(o.late, d) }

type fixture struct {
	rec     *recorder
	clock   *clock.FakeClock
	waker   *scriptedWaker
	surface *surface
	display *display
	obs     *observer
	cfg     Config
}

func newFixture(t *testing.T, times ...time.Time) *fixture {
	t.Helper()
	rec := &recorder{}
	fake := clock.Fake(hms(0, 0, 0).Add(500 * time.Millisecond))
	buf := mono.New(64, 64, mono.Rotate0)
	renderer, err := face.New(face.KindAnalog, face.Options{Margin: 4})
	require.NoError(t, err)

	f := &fixture{
		rec:     rec,
		clock:   fake,
		waker:   &scriptedWaker{clock: fake, times: times},
		surface: &surface{Buffer: buf, rec: rec},
		display: &display{rec: rec},
		obs:     &observer{},
	}
	f.cfg = Config{
		Buffer:   buf,
		Surface:  f.surface,
		Display:  f.display,
		Renderer: renderer,
		Policy:   refresh.New(refresh.CadenceHour, 0),
		Clock:    fake,
		Waker:    f.waker,
		Observer: f.obs,
	}
	return f
}

func (f *fixture) run(t *testing.T) error {
	t.Helper()
	l, err := New(f.cfg)
	require.NoError(t, err)
	return l.Run(context.Background())
}

func TestRunPushesEveryTick(t *testing.T) {
	f := newFixture(t, hms(0, 0, 0), hms(0, 0, 1), hms(0, 30, 15))
	f.cfg.MaxFrames = 3
	f.cfg.SkipBootClear = true

	require.NoError(t, f.run(t))
	assert.Equal(t, []string{
		"clear", "draw", "push:full",
		"clear", "draw", "push:quick",
		"clear", "draw", "push:quick",
	}, f.rec.events)
	assert.Equal(t, []refresh.Mode{refresh.Full, refresh.Quick, refresh.Quick}, f.obs.frames)
	assert.Equal(t, []time.Time{hms(0, 0, 0), hms(0, 0, 1), hms(0, 30, 15)}, f.obs.at, "observer sees the loop clock")
	for i, ink := range f.display.ink {
		assert.Positive(t, ink, "frame %d is blank", i)
	}
}

func TestRunBootClear(t *testing.T) {
	f := newFixture(t, hms(0, 0, 1))
	f.cfg.MaxFrames = 1

	require.NoError(t, f.run(t))
	assert.Equal(t, []string{"clear", "push:full", "clear", "draw", "push:quick"}, f.rec.events)
	assert.Equal(t, 0, f.display.ink[0], "boot frame is blank")
}

func TestRunReportsLateTick(t *testing.T) {
	f := newFixture(t)
	f.cfg.MaxFrames = 1
	f.cfg.SkipBootClear = true
	f.cfg.Waker = wakerFunc(func(ctx context.Context) (schedule.Tick, error) {
		f.clock.Set(hms(0, 0, 1).Add(400 * time.Millisecond))
		return schedule.Tick{At: hms(0, 0, 1)}, nil
	})

	require.NoError(t, f.run(t))
	assert.Equal(t, []time.Duration{400 * time.Millisecond}, f.obs.late)
}

type wakerFunc func(ctx context.Context) (schedule.Tick, error)

func (wakerFunc) Start(context.Context) {}

func (w wakerFunc) Next(ctx context.Context) (schedule.Tick, error) { return w(ctx) }

func TestRunErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("timer", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.SkipBootClear = true
		f.waker.err = boom
		err := f.run(t)
		var te *TimerError
		require.ErrorAs(t, err, &te)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("render", func(t *testing.T) {
		f := newFixture(t, hms(1, 2, 3))
		f.cfg.SkipBootClear = true
		f.surface.drawErr = boom
		err := f.run(t)
		var re *RenderError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, hms(1, 2, 3), re.At)
		assert.ErrorIs(t, err, boom)
		assert.NotContains(t, f.rec.events, "push:quick")
	})

	t.Run("push", func(t *testing.T) {
		f := newFixture(t, hms(1, 2, 3))
		f.cfg.SkipBootClear = true
		f.display.pushFn = func(refresh.Mode) error { return boom }
		err := f.run(t)
		var pe *PushError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, refresh.Quick, pe.Mode)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("boot push", func(t *testing.T) {
		f := newFixture(t)
		f.display.pushFn = func(refresh.Mode) error { return boom }
		err := f.run(t)
		var pe *PushError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, refresh.Full, pe.Mode)
	})
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t)
	f.cfg.SkipBootClear = true
	l, err := New(f.cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Run(ctx), context.Canceled)
}

func TestRunWithScheduler(t *testing.T) {
	fake := clock.Fake(hms(11, 59, 59).Add(600 * time.Millisecond))
	buf := mono.New(32, 32, mono.Rotate0)
	renderer, err := face.New(face.KindSectors, face.Options{})
	require.NoError(t, err)
	d := &display{rec: &recorder{}}

	l, err := New(Config{
		Buffer:    buf,
		Display:   d,
		Renderer:  renderer,
		Policy:    refresh.New(refresh.CadenceHour, 0),
		Clock:     fake,
		MaxFrames: 2,
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	fake.WaitForTimers(1)
	fake.Advance(400 * time.Millisecond)
	fake.WaitForTimers(1)
	fake.Advance(time.Second)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not finish")
	}
	assert.Equal(t, []refresh.Mode{refresh.Full, refresh.Full, refresh.Quick}, d.modes)
	assert.Equal(t, image.Rect(0, 0, 32, 32), buf.Bounds())
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	buf := mono.New(8, 8, mono.Rotate0)
	_, err = New(Config{Buffer: buf})
	assert.Error(t, err)

	_, err = New(Config{Buffer: buf, Display: &display{rec: &recorder{}}})
	assert.Error(t, err)
}
