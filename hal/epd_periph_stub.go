//go:build !linux && !tinygo

package hal

import (
	"fmt"
	"image"
	"log/slog"

	"epclock/mono"
	"epclock/refresh"
)

// EPDConfig selects the SPI port of a Waveshare 2.13" v2 HAT.
type EPDConfig struct {
	SPI    string
	Logger *slog.Logger
}

// EPD is only available on Linux hosts.
type EPD struct{}

func OpenEPD(EPDConfig) (*EPD, error) {
	return nil, fmt.Errorf("epd: %w on this platform", ErrNotImplemented)
}

func (*EPD) Bounds() image.Rectangle { return image.Rectangle{} }

func (*EPD) PushFrame(*mono.Buffer, refresh.Mode) error { return ErrNotImplemented }

func (*EPD) Close() error { return nil }
