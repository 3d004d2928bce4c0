package mono

import (
	"errors"

	"epclock/gfx"

	"tinygo.org/x/tinyfont"
)

var errNoFont = errors.New("mono: text without font")

// Ascent returns the distance from the top of a line to its baseline.
func Ascent(f tinyfont.Fonter) int {
	if g := f.GetGlyph('M'); g != nil {
		if off := -int(g.Info().YOffset); off > 0 {
			return off
		}
	}
	return int(f.GetYAdvance())
}

func (b *Buffer) text(t gfx.Text) error {
	if t.Font == nil {
		return errNoFont
	}
	c := t.Color.RGBA()
	adv := int(t.Font.GetYAdvance())
	y := t.Origin.Y + Ascent(t.Font)
	for _, line := range t.Lines {
		tinyfont.WriteLine(b, t.Font, int16(t.Origin.X), int16(y), line, c)
		y += adv
	}
	return nil
}
