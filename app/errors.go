package app

import (
	"fmt"
	"time"

	"epclock/refresh"
)

// TimerError means the scheduler could not deliver a tick.
type TimerError struct {
	Err error
}

func (e *TimerError) Error() string { return fmt.Sprintf("wait for tick: %v", e.Err) }

func (e *TimerError) Unwrap() error { return e.Err }

// RenderError means the frame for At could not be drawn.
type RenderError struct {
	At  time.Time
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.At.Format(time.TimeOnly), e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// PushError means the display rejected a frame.
type PushError struct {
	Mode refresh.Mode
	Err  error
}

func (e *PushError) Error() string { return fmt.Sprintf("push %s frame: %v", e.Mode, e.Err) }

func (e *PushError) Unwrap() error { return e.Err }
