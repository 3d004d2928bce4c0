// Package mono implements a one bit per pixel frame buffer and the
// rasterizer that commits gfx primitives into it.
//
// The buffer stores pixels in the panel's native orientation and exposes
// a rotated logical view for drawing.
package mono

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"epclock/gfx"

	"periph.io/x/devices/v3/ssd1306/image1bit"
	"tinygo.org/x/drivers"
)

var (
	_ gfx.Surface       = (*Buffer)(nil)
	_ drivers.Displayer = (*Buffer)(nil)
)

// ErrUnsupported is returned by Draw for primitives it cannot rasterize.
var ErrUnsupported = errors.New("mono: unsupported primitive")

// Rotation is the clockwise rotation from the logical view to the native
// panel layout.
type Rotation uint8

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// ParseRotation accepts 0, 90, 180 or 270 degrees.
func ParseRotation(deg int) (Rotation, error) {
	switch deg {
	case 0:
		return Rotate0, nil
	case 90:
		return Rotate90, nil
	case 180:
		return Rotate180, nil
	case 270:
		return Rotate270, nil
	default:
		return Rotate0, fmt.Errorf("mono: invalid rotation %d (want 0, 90, 180 or 270)", deg)
	}
}

// Degrees returns r in degrees.
func (r Rotation) Degrees() int { return int(r%4) * 90 }

// Buffer is a monochrome raster.
//
// It is not safe for concurrent use.
type Buffer struct {
	img *image1bit.VerticalLSB
	rot Rotation

	nw, nh int // native
	w, h   int // logical
}

// New allocates a cleared buffer for a panel of nativeW x nativeH pixels.
func New(nativeW, nativeH int, rot Rotation) *Buffer {
	if nativeW < 0 {
		nativeW = 0
	}
	if nativeH < 0 {
		nativeH = 0
	}
	b := &Buffer{
		img: image1bit.NewVerticalLSB(image.Rect(0, 0, nativeW, nativeH)),
		rot: rot % 4,
		nw:  nativeW,
		nh:  nativeH,
		w:   nativeW,
		h:   nativeH,
	}
	if b.rot == Rotate90 || b.rot == Rotate270 {
		b.w, b.h = nativeH, nativeW
	}
	return b
}

// Bounds returns the logical drawing area.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.w, b.h) }

// NativeBounds returns the panel-oriented area.
func (b *Buffer) NativeBounds() image.Rectangle { return image.Rect(0, 0, b.nw, b.nh) }

// Native returns the backing image in panel orientation. On pixels are
// image1bit.On.
func (b *Buffer) Native() *image1bit.VerticalLSB { return b.img }

func (b *Buffer) toNative(x, y int) (int, int) {
	switch b.rot {
	case Rotate90:
		return b.nw - 1 - y, x
	case Rotate180:
		return b.nw - 1 - x, b.nh - 1 - y
	case Rotate270:
		return y, b.nh - 1 - x
	default:
		return x, y
	}
}

// Set paints one logical pixel. Out of range writes are dropped.
func (b *Buffer) Set(x, y int, c gfx.Color) {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return
	}
	nx, ny := b.toNative(x, y)
	b.img.SetBit(nx, ny, image1bit.Bit(c == gfx.On))
}

// Pixel reads one logical pixel. Out of range reads are Off.
func (b *Buffer) Pixel(x, y int) gfx.Color {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return gfx.Off
	}
	nx, ny := b.toNative(x, y)
	if b.img.BitAt(nx, ny) {
		return gfx.On
	}
	return gfx.Off
}

// Count returns how many pixels are set to c.
func (b *Buffer) Count(c gfx.Color) int {
	n := 0
	for y := 0; y < b.nh; y++ {
		for x := 0; x < b.nw; x++ {
			if bool(b.img.BitAt(x, y)) == (c == gfx.On) {
				n++
			}
		}
	}
	return n
}

// Clear sets every pixel to c.
func (b *Buffer) Clear(c gfx.Color) error {
	v := byte(0)
	if c == gfx.On {
		v = 0xff
	}
	for i := range b.img.Pix {
		b.img.Pix[i] = v
	}
	return nil
}

// Size implements drivers.Displayer.
func (b *Buffer) Size() (x, y int16) { return int16(b.w), int16(b.h) }

// SetPixel implements drivers.Displayer.
func (b *Buffer) SetPixel(x, y int16, c color.RGBA) {
	b.Set(int(x), int(y), gfx.ColorOf(c))
}

// Display implements drivers.Displayer. Pixels are pushed by the display
// sink, not here.
func (b *Buffer) Display() error { return nil }
