//go:build !tinygo && !cgo

package hal

import (
	"context"
	"errors"

	"epclock/mono"
	"epclock/refresh"
)

var errNoCgo = errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")

// WindowConfig sizes the simulator window.
type WindowConfig struct {
	Width, Height int
	Scale         int
}

// Window is unavailable without cgo.
type Window struct{}

func NewWindow(WindowConfig) *Window { return &Window{} }

func (*Window) PushFrame(*mono.Buffer, refresh.Mode) error { return errNoCgo }

func (*Window) Close() error { return nil }

func RunWindow(context.Context, *Window, func(context.Context) error) error {
	return errNoCgo
}
