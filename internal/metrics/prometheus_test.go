package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"epclock/refresh"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramePushed(t *testing.T) {
	r := New()
	at := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	r.FramePushed(at, refresh.Full, 2*time.Millisecond, 900*time.Millisecond)
	r.FramePushed(at.Add(time.Second), refresh.Quick, time.Millisecond, 300*time.Millisecond)
	r.FramePushed(at.Add(1500*time.Millisecond), refresh.Quick, time.Millisecond, 300*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.FramesTotal.WithLabelValues("full")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.FramesTotal.WithLabelValues("quick")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.RenderSeconds))
	assert.Equal(t, float64(at.Unix())+1.5, testutil.ToFloat64(r.LastFrame), "frame time, not wall time")
}

func TestTickLate(t *testing.T) {
	r := New()
	r.TickLate(400 * time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.LateTicksTotal))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.FramePushed(time.Unix(0, 0), refresh.Full, 0, 0)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `epclock_frames_total{mode="full"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
