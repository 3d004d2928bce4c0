//go:build linux && !tinygo

package hal

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"

	"epclock/mono"
	"epclock/refresh"

	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v2"
	"periph.io/x/host/v3"
)

var _ Sink = (*EPD)(nil)

// EPDConfig selects the SPI port of a Waveshare 2.13" v2 HAT.
type EPDConfig struct {
	// SPI is the periph port name. Empty picks the first registered port.
	SPI    string
	Logger *slog.Logger
}

// panel is the part of waveshare2in13v2.Dev the sink drives.
type panel interface {
	Bounds() image.Rectangle
	SetUpdateMode(waveshare2in13v2.PartialUpdate) error
	Draw(dst image.Rectangle, src image.Image, sp image.Point) error
	Clear(color.Color) error
	Sleep() error
}

// EPD pushes frames to a Waveshare 2.13" v2 panel on a Linux host.
type EPD struct {
	port io.Closer
	dev  panel
	img  *image1bit.VerticalLSB
	mode refresh.Mode
	log  *slog.Logger
}

// OpenEPD initializes the host drivers and the panel, leaving it blank in
// full update mode.
func OpenEPD(cfg EPDConfig) (*EPD, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("epd: host init: %w", err)
	}
	port, err := spireg.Open(cfg.SPI)
	if err != nil {
		return nil, fmt.Errorf("epd: open spi %q: %w", cfg.SPI, err)
	}
	e, err := openHat(port, cfg.Logger)
	if err != nil {
		port.Close()
		return nil, err
	}
	return e, nil
}

func openHat(port spi.PortCloser, log *slog.Logger) (*EPD, error) {
	opts := waveshare2in13v2.EPD2in13v2
	dev, err := waveshare2in13v2.NewHat(port, &opts)
	if err != nil {
		return nil, fmt.Errorf("epd: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("epd: init: %w", err)
	}
	e := newEPD(port, dev, log)
	if err := dev.Clear(color.White); err != nil {
		return nil, fmt.Errorf("epd: clear: %w", err)
	}
	log.Info("epd ready", "panel", dev.String(), "bounds", dev.Bounds())
	return e, nil
}

// newEPD wraps an initialized panel, which starts in full update mode.
func newEPD(port io.Closer, dev panel, log *slog.Logger) *EPD {
	return &EPD{
		port: port,
		dev:  dev,
		img:  image1bit.NewVerticalLSB(dev.Bounds()),
		mode: refresh.Full,
		log:  log,
	}
}

// Bounds returns the panel's native resolution.
func (e *EPD) Bounds() image.Rectangle { return e.dev.Bounds() }

// PushFrame implements app.Display. The buffer must have the panel's
// native size. The waveform is reloaded only when mode changes.
func (e *EPD) PushFrame(buf *mono.Buffer, mode refresh.Mode) error {
	if !buf.NativeBounds().Eq(e.dev.Bounds()) {
		return fmt.Errorf("epd: frame %v does not match panel %v", buf.NativeBounds(), e.dev.Bounds())
	}
	draw.Draw(e.img, e.img.Bounds(), paperView(buf, true), image.Point{}, draw.Src)

	if err := e.setMode(mode); err != nil {
		return err
	}
	if err := e.dev.Draw(e.dev.Bounds(), e.img, image.Point{}); err != nil {
		return fmt.Errorf("epd: draw %s: %w", mode, err)
	}
	return nil
}

func (e *EPD) setMode(mode refresh.Mode) error {
	if mode == e.mode {
		return nil
	}
	if err := e.dev.SetUpdateMode(updateMode(mode)); err != nil {
		return fmt.Errorf("epd: switch to %s: %w", mode, err)
	}
	e.mode = mode
	e.log.Debug("epd waveform", "mode", mode)
	return nil
}

func updateMode(mode refresh.Mode) waveshare2in13v2.PartialUpdate {
	if mode == refresh.Quick {
		return waveshare2in13v2.Partial
	}
	return waveshare2in13v2.Full
}

// Close blanks the panel with a full update, puts it to sleep and
// releases the port.
func (e *EPD) Close() error {
	var errs []error
	if err := e.setMode(refresh.Full); err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, e.dev.Clear(color.White))
	}
	errs = append(errs, e.dev.Sleep(), e.port.Close())
	return errors.Join(errs...)
}
