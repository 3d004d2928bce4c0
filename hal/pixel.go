package hal

import (
	"image"
	"image/color"

	"epclock/gfx"
	"epclock/mono"
)

var (
	paperWhite = color.Gray{Y: 0xff}
	inkBlack   = color.Gray{Y: 0x00}
)

// paperView renders buf the way it looks on paper: set pixels are ink.
// The logical view is used for screens and snapshots, the native one for
// panels that expect their own scan orientation.
func paperView(buf *mono.Buffer, native bool) *image.Gray {
	if native {
		src := buf.Native()
		r := src.Bounds()
		img := image.NewGray(r)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetGray(x, y, toPaper(bool(src.BitAt(x, y))))
			}
		}
		return img
	}

	r := buf.Bounds()
	img := image.NewGray(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, toPaper(buf.Pixel(x, y) == gfx.On))
		}
	}
	return img
}

func toPaper(on bool) color.Gray {
	if on {
		return inkBlack
	}
	return paperWhite
}
