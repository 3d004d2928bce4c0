// Package angle maps clock readings to angles and angles to points on a
// clock face.
//
// Angles are radians measured clockwise from the 12 o'clock position, so 0
// points up and π/2 points right. Screen Y grows downwards.
package angle

import (
	"image"
	"math"
)

// FullTurn is one revolution in radians.
const FullTurn = 2 * math.Pi

// Vec is a real-valued point in screen space.
type Vec struct {
	X, Y float64
}

// VecOf converts an integer pixel position into a Vec.
func VecOf(p image.Point) Vec {
	return Vec{X: float64(p.X), Y: float64(p.Y)}
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }

// Round snaps v to the nearest pixel.
func (v Vec) Round() image.Point {
	return image.Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

// HourToAngle converts an hour in 24 hour form to the hour hand angle.
func HourToAngle(hour int) float64 {
	h := hour % 12
	if h < 0 {
		h += 12
	}
	return float64(h) / 12 * FullTurn
}

// SexagesimalToAngle converts a base 60 value (minutes or seconds) to an angle.
func SexagesimalToAngle(value int) float64 {
	return float64(value) / 60 * FullTurn
}

// Normalize reduces a to [0, 2π).
func Normalize(a float64) float64 {
	a = math.Mod(a, FullTurn)
	if a < 0 {
		a += FullTurn
	}
	// math.Mod can land a hair below FullTurn for values like 60/60*2π.
	if FullTurn-a < 1e-12 {
		return 0
	}
	return a
}

// Polar returns the point at angle a on a circle of the given diameter
// around center, pushed outwards by radiusDelta (negative moves inwards).
func Polar(center Vec, diameter, a, radiusDelta float64) Vec {
	r := diameter/2 + radiusDelta
	return center.Add(Vec{X: math.Sin(a) * r, Y: -math.Cos(a) * r})
}

// Of returns the angle of the vector (dx, dy) from the 12 o'clock
// position, clockwise, in [0, 2π).
func Of(dx, dy float64) float64 {
	return Normalize(math.Atan2(dx, -dy))
}
