package face

import (
	"image"
	"time"

	"epclock/gfx"
)

// band is an annulus between two fractions of the face diameter.
type band struct {
	inner, outer float64
}

var (
	hourBand   = band{inner: 1.0 / 4, outer: 2.0 / 4}
	minuteBand = band{inner: 3.0 / 5, outer: 4.0 / 5}
	secondBand = band{inner: 5.0 / 6, outer: 1}
)

// punchOverlap widens each hole by one pixel per side.
const punchOverlap = 2

// Sectors shows each unit as a filled arc growing clockwise from
// 12 o'clock inside its own ring.
//
// Bands are emitted outermost first. Every punch clears everything inside
// its circle, so drawing the hour band first would be wiped by the minute
// and second punches.
type Sectors struct {
	opts Options
}

// Render implements Renderer.
func (s Sectors) Render(t time.Time, bounds image.Rectangle) gfx.Batch {
	g := NewGeometry(bounds, s.opts.Margin)
	hands := HandsAt(t)

	batch := make(gfx.Batch, 0, 7)
	if s.opts.DateOverlay {
		batch = append(batch, dateOverlay(t, bounds))
	}
	batch = g.appendBand(batch, secondBand, hands.Second)
	batch = g.appendBand(batch, minuteBand, hands.Minute)
	batch = g.appendBand(batch, hourBand, hands.Hour)
	return batch
}

func (g Geometry) appendBand(batch gfx.Batch, b band, sweep float64) gfx.Batch {
	d := float64(g.Diameter)
	return append(batch,
		gfx.Sector{
			Center:   g.Center,
			Diameter: int(d * b.outer),
			Start:    0,
			Sweep:    sweep,
			Style:    gfx.FillStyle(gfx.On),
		},
		gfx.Circle{
			Center:   g.Center,
			Diameter: int(d*b.inner) + punchOverlap,
			Style:    gfx.FillStyle(gfx.Off),
		},
	)
}
