//go:build tinygo && baremetal

package hal

import (
	"image"
	"image/color"
	"machine"

	"epclock/mono"
	"epclock/refresh"

	"tinygo.org/x/drivers/waveshare-epd/epd2in13"
)

var _ Sink = (*PicoEPD)(nil)

// Panel RAM size of the 2.13" module. Only 122 columns are visible.
const (
	picoEPDWidth  = 128
	picoEPDHeight = 250
)

// The driver treats pure black as blank paper.
var epdInk = color.RGBA{1, 1, 1, 255}

// PicoEPD drives a Waveshare Pico-ePaper-2.13 on SPI1.
type PicoEPD struct {
	dev  epd2in13.Device
	full bool
}

// OpenPicoEPD configures SPI1 (GP10 SCK, GP11 SDO) and the control pins
// CS GP9, DC GP8, RST GP12, BUSY GP13, then clears the panel.
func OpenPicoEPD() (*PicoEPD, error) {
	if err := machine.SPI1.Configure(machine.SPIConfig{
		Frequency: 4_000_000,
		SCK:       machine.GP10,
		SDO:       machine.GP11,
	}); err != nil {
		return nil, err
	}
	cs, dc, rst, busy := machine.GP9, machine.GP8, machine.GP12, machine.GP13
	for _, p := range []machine.Pin{cs, dc, rst} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	busy.Configure(machine.PinConfig{Mode: machine.PinInput})

	e := &PicoEPD{dev: epd2in13.New(machine.SPI1, cs, dc, rst, busy), full: true}
	e.dev.Configure(epd2in13.Config{Width: picoEPDWidth, Height: picoEPDHeight})
	e.dev.ClearBuffer()
	e.dev.ClearDisplay()
	e.dev.WaitUntilIdle()
	return e, nil
}

// Bounds returns the panel's native resolution.
func (e *PicoEPD) Bounds() image.Rectangle {
	return image.Rect(0, 0, picoEPDWidth, picoEPDHeight)
}

// PushFrame implements app.Display.
func (e *PicoEPD) PushFrame(buf *mono.Buffer, mode refresh.Mode) error {
	full := mode == refresh.Full
	if full != e.full {
		if err := e.dev.SetLUT(full); err != nil {
			return err
		}
		e.full = full
	}

	e.dev.ClearBuffer()
	img := buf.Native()
	r := img.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.BitAt(x, y) {
				e.dev.SetPixel(int16(x), int16(y), epdInk)
			}
		}
	}
	if err := e.dev.Display(); err != nil {
		return err
	}
	e.dev.WaitUntilIdle()
	return nil
}

// Close puts the panel into deep sleep.
func (e *PicoEPD) Close() error {
	e.dev.DeepSleep()
	return nil
}
