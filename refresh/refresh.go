// Package refresh decides whether a frame is pushed with a full panel
// refresh or a quick partial update.
//
// Quick updates leave ghosting on e-paper, so a full refresh is forced at
// every cadence boundary and whenever one was skipped.
package refresh

import (
	"fmt"
	"strings"
	"time"
)

// Mode is how the panel applies a frame.
type Mode uint8

const (
	// Quick is a partial update: fast, no flash, accumulates ghosting.
	Quick Mode = iota
	// Full is a slow flashing update that clears ghosting.
	Full
)

func (m Mode) String() string {
	switch m {
	case Full:
		return "full"
	case Quick:
		return "quick"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Cadence is the wall-clock boundary on which full refreshes happen.
type Cadence uint8

const (
	// CadenceHour refreshes fully at mm:ss = 00:00.
	CadenceHour Cadence = iota
	// CadenceMinute refreshes fully at ss = 00.
	CadenceMinute
	// CadenceQuarterDay refreshes fully at 00:00, 06:00, 12:00 and 18:00.
	CadenceQuarterDay
)

var cadenceNames = [...]string{
	CadenceHour:       "hour",
	CadenceMinute:     "minute",
	CadenceQuarterDay: "quarterday",
}

func (c Cadence) String() string {
	if int(c) < len(cadenceNames) {
		return cadenceNames[c]
	}
	return fmt.Sprintf("cadence(%d)", uint8(c))
}

// ParseCadence maps "minute", "hour" or "quarterday" to a Cadence.
func ParseCadence(s string) (Cadence, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range cadenceNames {
		if name == s {
			return Cadence(c), nil
		}
	}
	return 0, fmt.Errorf("refresh: unknown cadence %q", s)
}

// bucket truncates t to the start of its cadence period in t's location.
func (c Cadence) bucket(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, m, _ := t.Clock()
	switch c {
	case CadenceMinute:
		return time.Date(y, mo, d, h, m, 0, 0, t.Location())
	case CadenceQuarterDay:
		return time.Date(y, mo, d, h-h%6, 0, 0, 0, t.Location())
	default:
		return time.Date(y, mo, d, h, 0, 0, 0, t.Location())
	}
}

// onBoundary reports whether t's second is the first of a cadence period.
func (c Cadence) onBoundary(t time.Time) bool {
	h, m, s := t.Clock()
	switch c {
	case CadenceMinute:
		return s == 0
	case CadenceQuarterDay:
		return h%6 == 0 && m == 0 && s == 0
	default:
		return m == 0 && s == 0
	}
}

// Policy classifies successive frames. It only looks at timestamps.
//
// A Policy is not safe for concurrent use.
type Policy struct {
	cadence     Cadence
	maxInterval time.Duration

	last     time.Time
	lastFull time.Time
}

// New returns a policy for cadence. A positive maxInterval forces a full
// refresh once that long has passed since the previous one.
func New(cadence Cadence, maxInterval time.Duration) *Policy {
	return &Policy{cadence: cadence, maxInterval: maxInterval}
}

// Classify returns the mode for a frame showing t and records t.
func (p *Policy) Classify(t time.Time) Mode {
	mode := p.decide(t)
	p.last = t
	if mode == Full {
		p.lastFull = t
	}
	return mode
}

func (p *Policy) decide(t time.Time) Mode {
	if p.cadence.onBoundary(t) {
		return Full
	}
	if !p.last.IsZero() && !p.cadence.bucket(p.last).Equal(p.cadence.bucket(t)) {
		return Full
	}
	if p.maxInterval > 0 && !p.lastFull.IsZero() && t.Sub(p.lastFull) >= p.maxInterval {
		return Full
	}
	return Quick
}

// MarkFull records a full refresh made outside Classify, such as the
// clear at boot.
func (p *Policy) MarkFull(t time.Time) {
	p.lastFull = t
	if p.last.IsZero() || t.After(p.last) {
		p.last = t
	}
}
