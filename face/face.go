// Package face turns a wall-clock reading into the draw primitives of a
// clock face.
//
// Renderers are stateless: geometry is derived from the surface bounds on
// every call.
package face

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"epclock/angle"
	"epclock/gfx"

	"tinygo.org/x/tinyfont/freemono"
)

// ErrUnknownKind is returned for a face kind New does not know.
var ErrUnknownKind = errors.New("face: unknown kind")

// DefaultMargin is the gap between the face and the surface border.
const DefaultMargin = 10

// Kind selects a renderer.
type Kind uint8

const (
	KindAnalog Kind = iota
	KindSectors
	KindDigital
)

var kindNames = [...]string{
	KindAnalog:  "analog",
	KindSectors: "sectors",
	KindDigital: "digital",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a name ("analog", "sectors", "digital") to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// Options tune every renderer.
type Options struct {
	// Margin is the gap in pixels between the face and the surface edge.
	Margin int
	// DateOverlay draws the year, day and weekday in the top-left corner
	// before the face.
	DateOverlay bool
}

// Renderer produces a complete frame for t on a surface of the given bounds.
type Renderer interface {
	Render(t time.Time, bounds image.Rectangle) gfx.Batch
}

// New returns the renderer for kind.
func New(kind Kind, opts Options) (Renderer, error) {
	if opts.Margin < 0 {
		return nil, fmt.Errorf("face: negative margin %d", opts.Margin)
	}
	switch kind {
	case KindAnalog:
		return Analog{opts: opts}, nil
	case KindSectors:
		return Sectors{opts: opts}, nil
	case KindDigital:
		return Digital{opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w %d", ErrUnknownKind, uint8(kind))
	}
}

// Geometry is the circular face inscribed in the surface.
type Geometry struct {
	Center   image.Point
	Diameter int
}

// NewGeometry centers the largest circle that fits bounds with margin on
// every side.
func NewGeometry(bounds image.Rectangle, margin int) Geometry {
	d := min(bounds.Dx(), bounds.Dy()) - 2*margin
	if d < 0 {
		d = 0
	}
	return Geometry{
		Center:   image.Pt(bounds.Min.X+bounds.Dx()/2, bounds.Min.Y+bounds.Dy()/2),
		Diameter: d,
	}
}

// Polar returns the pixel at angle a, radiusDelta pixels outside the face
// edge.
func (g Geometry) Polar(a float64, radiusDelta int) image.Point {
	return angle.Polar(angle.VecOf(g.Center), float64(g.Diameter), a, float64(radiusDelta)).Round()
}

// Hands holds the three hand angles for a reading.
type Hands struct {
	Hour, Minute, Second float64
}

// HandsAt reads the hand angles from t's wall clock.
func HandsAt(t time.Time) Hands {
	h, m, s := t.Clock()
	return Hands{
		Hour:   angle.HourToAngle(h),
		Minute: angle.SexagesimalToAngle(m),
		Second: angle.SexagesimalToAngle(s),
	}
}

// dateOverlay mirrors the year / day month / weekday block printed in the
// top-left corner.
func dateOverlay(t time.Time, bounds image.Rectangle) gfx.Text {
	return gfx.Text{
		Origin: bounds.Min,
		Lines:  []string{t.Format("2006"), t.Format("_2 Jan"), t.Format("Mon")},
		Font:   &freemono.Regular9pt7b,
		Color:  gfx.On,
	}
}
