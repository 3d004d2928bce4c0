package face

import (
	"image"
	"time"

	"epclock/gfx"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

var (
	digitsFont = &freemono.Bold18pt7b
	dateFont   = &freemono.Regular9pt7b
)

// Digital prints HH:MM:SS centered on the surface with the date beneath.
type Digital struct {
	opts Options
}

// Render implements Renderer.
func (d Digital) Render(t time.Time, bounds image.Rectangle) gfx.Batch {
	center := image.Pt(bounds.Min.X+bounds.Dx()/2, bounds.Min.Y+bounds.Dy()/2)

	clock := t.Format("15:04:05")
	date := t.Format("Mon 2 Jan 2006")

	top := center.Y - int(digitsFont.GetYAdvance())/2
	batch := make(gfx.Batch, 0, 3)
	if d.opts.DateOverlay {
		batch = append(batch, dateOverlay(t, bounds))
	}
	return append(batch,
		gfx.Text{
			Origin: image.Pt(center.X-lineWidth(digitsFont, clock)/2, top),
			Lines:  []string{clock},
			Font:   digitsFont,
			Color:  gfx.On,
		},
		gfx.Text{
			Origin: image.Pt(center.X-lineWidth(dateFont, date)/2, top+int(digitsFont.GetYAdvance())),
			Lines:  []string{date},
			Font:   dateFont,
			Color:  gfx.On,
		},
	)
}

func lineWidth(f tinyfont.Fonter, s string) int {
	_, outbox := tinyfont.LineWidth(f, s)
	return int(outbox)
}
