// Package hal holds the display sinks a frame can be pushed to: a headless
// recorder, a desktop simulator window and e-paper panels.
package hal

import (
	"errors"

	"epclock/mono"
	"epclock/refresh"
)

var ErrNotImplemented = errors.New("not implemented")

// Sink is a display the entry point opens and must close.
type Sink interface {
	PushFrame(buf *mono.Buffer, mode refresh.Mode) error
	Close() error
}
