// Package app runs the clock: wait for a second boundary, sample the time,
// render, classify the refresh and push the frame to the display.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"epclock/face"
	"epclock/gfx"
	"epclock/internal/clock"
	"epclock/mono"
	"epclock/refresh"
	"epclock/schedule"
)

// DefaultLateThreshold is how far past its boundary a tick may be sampled
// before it is reported as late.
const DefaultLateThreshold = 250 * time.Millisecond

// Display receives finished frames. The buffer is only valid for the
// duration of the call.
type Display interface {
	PushFrame(buf *mono.Buffer, mode refresh.Mode) error
}

// Waker delivers one Tick per Next call.
type Waker interface {
	Start(ctx context.Context)
	Next(ctx context.Context) (schedule.Tick, error)
}

// Policy classifies frames by timestamp.
type Policy interface {
	Classify(t time.Time) refresh.Mode
	MarkFull(t time.Time)
}

// Observer is told about every pushed frame and every late tick.
type Observer interface {
	FramePushed(at time.Time, mode refresh.Mode, render, push time.Duration)
	TickLate(d time.Duration)
}

type nopObserver struct{}

func (nopObserver) FramePushed(time.Time, refresh.Mode, time.Duration, time.Duration) {}
func (nopObserver) TickLate(time.Duration)                                            {}

// Config wires a Loop. Buffer, Display and Renderer are required.
type Config struct {
	Buffer *mono.Buffer
	// Surface is drawn into before the buffer is pushed. Defaults to Buffer.
	Surface  gfx.Surface
	Display  Display
	Renderer face.Renderer
	// Policy defaults to an hourly cadence with a 12h guard.
	Policy Policy
	Clock  clock.Clock
	// Waker defaults to a schedule.Scheduler on Clock.
	Waker    Waker
	Logger   *slog.Logger
	Observer Observer

	// MaxFrames stops Run after that many ticked frames. Zero runs until
	// the context is done.
	MaxFrames int
	// SkipBootClear suppresses the blank full refresh before the first tick.
	SkipBootClear bool
	// LateThreshold defaults to DefaultLateThreshold.
	LateThreshold time.Duration
}

// Loop owns the frame buffer and the display for its lifetime.
type Loop struct {
	cfg Config
	log *slog.Logger
}

// New validates cfg and fills in defaults.
func New(cfg Config) (*Loop, error) {
	if cfg.Buffer == nil {
		return nil, errors.New("app: nil buffer")
	}
	if cfg.Display == nil {
		return nil, errors.New("app: nil display")
	}
	if cfg.Renderer == nil {
		return nil, errors.New("app: nil renderer")
	}
	if cfg.Surface == nil {
		cfg.Surface = cfg.Buffer
	}
	if cfg.Policy == nil {
		cfg.Policy = refresh.New(refresh.CadenceHour, 12*time.Hour)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Waker == nil {
		cfg.Waker = schedule.New(cfg.Clock)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if cfg.LateThreshold <= 0 {
		cfg.LateThreshold = DefaultLateThreshold
	}
	return &Loop{cfg: cfg, log: cfg.Logger}, nil
}

// Run blocks until ctx is done, MaxFrames frames were pushed, or a stage
// fails. Stage failures are returned as *TimerError, *RenderError or
// *PushError. Cancellation returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !l.cfg.SkipBootClear {
		if err := l.bootClear(); err != nil {
			return err
		}
	}

	l.cfg.Waker.Start(ctx)
	for n := 0; l.cfg.MaxFrames <= 0 || n < l.cfg.MaxFrames; n++ {
		tick, err := l.cfg.Waker.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &TimerError{Err: err}
		}
		if err := l.frame(tick); err != nil {
			l.log.Error("clock loop stopped", "error", err)
			return err
		}
	}
	l.log.Info("frame limit reached", "frames", l.cfg.MaxFrames)
	return nil
}

// bootClear blanks the panel with a full refresh so the first quick
// update starts from a clean slate.
func (l *Loop) bootClear() error {
	now := l.cfg.Clock.Now()
	if err := l.cfg.Surface.Clear(gfx.Off); err != nil {
		return &RenderError{At: now, Err: err}
	}
	if err := l.cfg.Display.PushFrame(l.cfg.Buffer, refresh.Full); err != nil {
		return &PushError{Mode: refresh.Full, Err: err}
	}
	l.cfg.Policy.MarkFull(now)
	l.log.Info("boot clear", "at", now.Format(time.TimeOnly))
	return nil
}

func (l *Loop) frame(tick schedule.Tick) error {
	now := l.cfg.Clock.Now()
	if !tick.At.IsZero() {
		if late := now.Sub(tick.At); late > l.cfg.LateThreshold {
			l.cfg.Observer.TickLate(late)
			l.log.Warn("late tick", "boundary", tick.At.Format(time.TimeOnly), "late", late)
		}
	}

	start := l.cfg.Clock.Now()
	batch := l.cfg.Renderer.Render(now, l.cfg.Surface.Bounds())
	if err := l.cfg.Surface.Clear(gfx.Off); err != nil {
		return &RenderError{At: now, Err: err}
	}
	if err := l.cfg.Surface.Draw(batch); err != nil {
		return &RenderError{At: now, Err: err}
	}
	rendered := l.cfg.Clock.Now()

	mode := l.cfg.Policy.Classify(now)
	if err := l.cfg.Display.PushFrame(l.cfg.Buffer, mode); err != nil {
		return &PushError{Mode: mode, Err: err}
	}
	pushed := l.cfg.Clock.Now()

	renderDur, pushDur := rendered.Sub(start), pushed.Sub(rendered)
	l.cfg.Observer.FramePushed(now, mode, renderDur, pushDur)

	level := slog.LevelDebug
	if mode == refresh.Full {
		level = slog.LevelInfo
	}
	l.log.Log(context.Background(), level, "frame pushed",
		"time", now.Format(time.TimeOnly),
		"mode", mode,
		"render", renderDur,
		"push", pushDur,
	)
	return nil
}
