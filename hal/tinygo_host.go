//go:build tinygo && !baremetal

package hal

import (
	"image"
	"io"
	"os"

	"epclock/mono"
	"epclock/refresh"
)

// SerialWriter is stdout when TinyGo targets a host OS.
func SerialWriter() io.Writer { return os.Stdout }

// PicoEPD needs a bare-metal target.
type PicoEPD struct{}

func OpenPicoEPD() (*PicoEPD, error) { return nil, ErrNotImplemented }

func (*PicoEPD) Bounds() image.Rectangle { return image.Rectangle{} }

func (*PicoEPD) PushFrame(*mono.Buffer, refresh.Mode) error { return ErrNotImplemented }

func (*PicoEPD) Close() error { return nil }
