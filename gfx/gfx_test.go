package gfx

import (
	"image/color"
	"testing"
)

func TestColorRoundTripThroughRGBA(t *testing.T) {
	for _, c := range []Color{Off, On} {
		if got := ColorOf(c.RGBA()); got != c {
			t.Fatalf("ColorOf(%v.RGBA()) = %v", c, got)
		}
	}
	if got := ColorOf(color.RGBA{R: 0xff, G: 0xff, B: 0xff}); got != Off {
		t.Fatalf("transparent white folded to %v, want off", got)
	}
}
