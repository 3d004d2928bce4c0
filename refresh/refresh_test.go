package refresh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(h, m, s int) time.Time {
	return time.Date(2024, time.June, 1, h, m, s, 0, time.UTC)
}

func TestHourCadenceSequence(t *testing.T) {
	p := New(CadenceHour, 0)
	got := []Mode{
		p.Classify(clock(1, 59, 59)),
		p.Classify(clock(2, 0, 0)),
		p.Classify(clock(2, 0, 1)),
	}
	assert.Equal(t, []Mode{Quick, Full, Quick}, got)
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		cadence Cadence
		at      time.Time
		want    Mode
	}{
		{CadenceHour, clock(0, 0, 0), Full},
		{CadenceHour, clock(13, 0, 0), Full},
		{CadenceHour, clock(13, 0, 1), Quick},
		{CadenceHour, clock(13, 1, 0), Quick},
		{CadenceMinute, clock(13, 1, 0), Full},
		{CadenceMinute, clock(13, 1, 1), Quick},
		{CadenceQuarterDay, clock(6, 0, 0), Full},
		{CadenceQuarterDay, clock(18, 0, 0), Full},
		{CadenceQuarterDay, clock(13, 0, 0), Quick},
		{CadenceQuarterDay, clock(12, 0, 1), Quick},
	}
	for _, tt := range tests {
		p := New(tt.cadence, 0)
		if got := p.Classify(tt.at); got != tt.want {
			t.Fatalf("%v Classify(%s) = %v, want %v", tt.cadence, tt.at.Format(time.TimeOnly), got, tt.want)
		}
	}
}

func TestSkippedBoundaryForcesFull(t *testing.T) {
	nextDay := func(h, m, s int) time.Time { return clock(h, m, s).AddDate(0, 0, 1) }
	tests := []struct {
		name    string
		cadence Cadence
		before  time.Time
		after   time.Time
	}{
		{"hour", CadenceHour, clock(2, 59, 58), clock(3, 0, 2)},
		{"hour across midnight", CadenceHour, clock(23, 59, 59), nextDay(0, 0, 1)},
		{"minute", CadenceMinute, clock(13, 4, 59), clock(13, 5, 1)},
		{"minute across midnight", CadenceMinute, clock(23, 59, 59), nextDay(0, 0, 3)},
		{"quarter day", CadenceQuarterDay, clock(17, 59, 59), clock(18, 0, 1)},
		{"quarter day across midnight", CadenceQuarterDay, clock(23, 59, 58), nextDay(0, 0, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cadence, 0)
			require.Equal(t, Quick, p.Classify(tt.before))
			assert.Equal(t, Full, p.Classify(tt.after), "boundary between %s and %s was skipped", tt.before, tt.after)
			assert.Equal(t, Quick, p.Classify(tt.after.Add(time.Second)))
		})
	}
}

func TestNoBoundaryCrossedStaysQuick(t *testing.T) {
	tests := []struct {
		cadence       Cadence
		before, after time.Time
	}{
		{CadenceHour, clock(3, 0, 2), clock(3, 59, 59)},
		{CadenceMinute, clock(13, 5, 1), clock(13, 5, 59)},
		{CadenceQuarterDay, clock(13, 0, 1), clock(17, 59, 59)},
	}
	for _, tt := range tests {
		p := New(tt.cadence, 0)
		require.Equal(t, Quick, p.Classify(tt.before))
		if got := p.Classify(tt.after); got != Quick {
			t.Fatalf("%v %s -> %s = %v, want quick", tt.cadence, tt.before.Format(time.TimeOnly), tt.after.Format(time.TimeOnly), got)
		}
	}
}

func TestMaxIntervalGuard(t *testing.T) {
	p := New(CadenceQuarterDay, time.Hour)
	p.MarkFull(clock(7, 0, 0))

	require.Equal(t, Quick, p.Classify(clock(7, 59, 59)))
	require.Equal(t, Full, p.Classify(clock(8, 0, 0)))
	assert.Equal(t, Quick, p.Classify(clock(8, 0, 1)))
	assert.Equal(t, Quick, p.Classify(clock(8, 59, 59)))
	assert.Equal(t, Full, p.Classify(clock(9, 0, 0)), "interval counts from the forced full")
}

func TestMarkFullAnchorsBucket(t *testing.T) {
	p := New(CadenceHour, 0)
	p.MarkFull(clock(4, 59, 59))
	assert.Equal(t, Full, p.Classify(clock(5, 0, 1)))
}

func TestParseCadence(t *testing.T) {
	for _, c := range []Cadence{CadenceMinute, CadenceHour, CadenceQuarterDay} {
		got, err := ParseCadence(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCadence("weekly")
	assert.Error(t, err)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "full", Full.String())
	assert.Equal(t, "quick", Quick.String())
}
