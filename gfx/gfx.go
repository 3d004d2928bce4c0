// Package gfx defines the draw primitives a clock face is made of and the
// surface contract they are committed to.
package gfx

import (
	"image"
	"image/color"

	"tinygo.org/x/tinyfont"
)

// Color is a two-valued pixel: Off is background, On is ink.
type Color uint8

const (
	Off Color = iota
	On
)

func (c Color) String() string {
	if c == On {
		return "on"
	}
	return "off"
}

// RGBA returns the color used when handing c to RGBA-based drawing code
// such as tinyfont: On is white, Off is black.
func (c Color) RGBA() color.RGBA {
	if c == On {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return color.RGBA{A: 0xff}
}

// ColorOf folds an RGBA value into a Color by luminance.
func ColorOf(c color.RGBA) Color {
	if c.A == 0 {
		return Off
	}
	if int(c.R)+int(c.G)+int(c.B) >= 3*0x80 {
		return On
	}
	return Off
}

// Style describes how a shape is painted. A zero StrokeWidth disables the
// outline; Filled enables the interior.
type Style struct {
	Stroke      Color
	StrokeWidth int
	Fill        Color
	Filled      bool
}

// StrokeStyle outlines a shape.
func StrokeStyle(c Color, width int) Style {
	return Style{Stroke: c, StrokeWidth: width}
}

// FillStyle fills a shape without an outline.
func FillStyle(c Color) Style {
	return Style{Fill: c, Filled: true}
}

// OutlineStyle fills a shape and draws an outline over the fill.
func OutlineStyle(stroke Color, width int, fill Color) Style {
	return Style{Stroke: stroke, StrokeWidth: width, Fill: fill, Filled: true}
}

// Primitive is one drawable shape. The set is closed.
type Primitive interface {
	primitive()
}

// Circle is centered on Center and spans Diameter pixels. For an even
// Diameter, Center is the lower-right of the four middle pixels.
type Circle struct {
	Center   image.Point
	Diameter int
	Style    Style
}

// Line joins From and To. Only the stroke of Style is used.
type Line struct {
	From, To image.Point
	Style    Style
}

// Sector is a pie slice of a circle. Start and Sweep are clock angles
// (radians clockwise from 12 o'clock); a non-positive Sweep is empty and a
// Sweep of 2π or more is the whole disc. Center follows Circle.
type Sector struct {
	Center   image.Point
	Diameter int
	Start    float64
	Sweep    float64
	Style    Style
}

// Text draws Lines top-down with Origin as the top-left corner of the
// first line.
type Text struct {
	Origin image.Point
	Lines  []string
	Font   tinyfont.Fonter
	Color  Color
}

func (Circle) primitive() {}
func (Line) primitive()   {}
func (Sector) primitive() {}
func (Text) primitive()   {}

// Batch is an ordered list of primitives; later entries paint over
// earlier ones.
type Batch []Primitive

// Surface is a drawable monochrome raster.
type Surface interface {
	Bounds() image.Rectangle
	Clear(c Color) error
	Draw(b Batch) error
}
