package face

import (
	"image"
	"time"

	"epclock/angle"
	"epclock/gfx"
)

// Hand lengths, graduation depth and ornament sizes in pixels. Negative
// deltas reach inward from the face edge.
const (
	faceStroke       = 2
	graduationLength = 10
	hourHandDelta    = -10
	minuteHandDelta  = -5
	secondHandDelta  = 0
	ornamentDelta    = -20
	ornamentDiameter = 11
	hubDiameter      = 9
)

// Analog draws a round face with twelve graduations and three hands.
type Analog struct {
	opts Options
}

// Render implements Renderer.
func (a Analog) Render(t time.Time, bounds image.Rectangle) gfx.Batch {
	g := NewGeometry(bounds, a.opts.Margin)
	hands := HandsAt(t)

	batch := make(gfx.Batch, 0, 20)
	if a.opts.DateOverlay {
		batch = append(batch, dateOverlay(t, bounds))
	}

	batch = append(batch, gfx.Circle{
		Center:   g.Center,
		Diameter: g.Diameter,
		Style:    gfx.StrokeStyle(gfx.On, faceStroke),
	})
	for h := 0; h < 12; h++ {
		at := angle.HourToAngle(h)
		batch = append(batch, gfx.Line{
			From:  g.Polar(at, 0),
			To:    g.Polar(at, -graduationLength),
			Style: gfx.StrokeStyle(gfx.On, 1),
		})
	}

	batch = append(batch,
		hand(g, hands.Hour, hourHandDelta),
		hand(g, hands.Minute, minuteHandDelta),
		hand(g, hands.Second, secondHandDelta),
		gfx.Circle{
			Center:   g.Polar(hands.Second, ornamentDelta),
			Diameter: ornamentDiameter,
			Style:    gfx.OutlineStyle(gfx.On, 1, gfx.Off),
		},
		// The hub goes last so it covers where the hands meet.
		gfx.Circle{
			Center:   g.Center,
			Diameter: hubDiameter,
			Style:    gfx.FillStyle(gfx.On),
		},
	)
	return batch
}

func hand(g Geometry, a float64, delta int) gfx.Line {
	return gfx.Line{
		From:  g.Center,
		To:    g.Polar(a, delta),
		Style: gfx.StrokeStyle(gfx.On, 1),
	}
}
