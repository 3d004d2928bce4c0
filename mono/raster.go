package mono

import (
	"fmt"
	"image"

	"epclock/angle"
	"epclock/gfx"
)

// Draw rasterizes the batch in order. It stops at the first primitive
// that cannot be committed.
func (b *Buffer) Draw(batch gfx.Batch) error {
	for i, p := range batch {
		if err := b.drawOne(p); err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
	}
	return nil
}

func (b *Buffer) drawOne(p gfx.Primitive) error {
	switch p := p.(type) {
	case gfx.Circle:
		b.circle(p)
	case gfx.Line:
		if p.Style.StrokeWidth > 0 {
			b.line(p.From, p.To, p.Style.StrokeWidth, p.Style.Stroke)
		}
	case gfx.Sector:
		b.sector(p)
	case gfx.Text:
		return b.text(p)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, p)
	}
	return nil
}

// twice returns twice the offset of pixel delta v from the true center of
// a disc of diameter d. An even disc is centered on the corner up-left of
// its Center pixel, so its pixels sit half a pixel off.
func twice(v, d int) int {
	if d%2 == 0 {
		return 2*v + 1
	}
	return 2 * v
}

// inDisc reports whether the pixel at delta (dx, dy) from Center lies in a
// disc of diameter d. Every row and column through the middle covers
// exactly d pixels.
func inDisc(dx, dy, d int) bool {
	if d <= 0 {
		return false
	}
	x, y := twice(dx, d), twice(dy, d)
	return x*x+y*y <= d*d
}

func (b *Buffer) circle(c gfx.Circle) {
	d := c.Diameter
	if d <= 0 {
		return
	}
	sw := c.Style.StrokeWidth
	inner := d - 2*sw
	r := d/2 + 1
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if !inDisc(dx, dy, d) {
				continue
			}
			x, y := c.Center.X+dx, c.Center.Y+dy
			switch {
			case sw > 0 && !inDisc(dx, dy, inner):
				b.Set(x, y, c.Style.Stroke)
			case c.Style.Filled:
				b.Set(x, y, c.Style.Fill)
			}
		}
	}
}

func (b *Buffer) sector(s gfx.Sector) {
	d := s.Diameter
	if d <= 0 || s.Sweep <= 0 {
		return
	}
	full := s.Sweep >= angle.FullTurn
	start := angle.Normalize(s.Start)
	sw := s.Style.StrokeWidth
	inner := d - 2*sw
	r := d/2 + 1
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if !inDisc(dx, dy, d) {
				continue
			}
			if !full && !inSweep(twice(dx, d), twice(dy, d), start, s.Sweep) {
				continue
			}
			x, y := s.Center.X+dx, s.Center.Y+dy
			switch {
			case sw > 0 && !inDisc(dx, dy, inner):
				b.Set(x, y, s.Style.Stroke)
			case s.Style.Filled:
				b.Set(x, y, s.Style.Fill)
			}
		}
	}
}

// inSweep takes the doubled offsets from twice.
func inSweep(dx, dy int, start, sweep float64) bool {
	if dx == 0 && dy == 0 {
		return true
	}
	a := angle.Normalize(angle.Of(float64(dx), float64(dy)) - start)
	return a <= sweep
}

// line draws a Bresenham line, stamping a width x width square per step.
func (b *Buffer) line(from, to image.Point, width int, c gfx.Color) {
	x0, y0, x1, y1 := from.X, from.Y, to.X, to.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	lo := -(width - 1) / 2
	hi := width / 2
	err := dx + dy
	for {
		for oy := lo; oy <= hi; oy++ {
			for ox := lo; ox <= hi; ox++ {
				b.Set(x0+ox, y0+oy, c)
			}
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
