// Package metrics exports frame and scheduling statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"epclock/refresh"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the clock metrics. It implements app.Observer.
type Registry struct {
	reg *prometheus.Registry

	FramesTotal     *prometheus.CounterVec
	RenderSeconds   prometheus.Histogram
	PushSeconds     *prometheus.HistogramVec
	LateTicksTotal  prometheus.Counter
	TickLateSeconds prometheus.Histogram
	LastFrame       prometheus.Gauge
}

// New registers the clock metrics plus the Go runtime collectors on a
// fresh registry.
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		FramesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "epclock_frames_total",
			Help: "Frames pushed to the display by refresh mode.",
		}, []string{"mode"}),
		RenderSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "epclock_render_seconds",
			Help:    "Time spent rendering and rasterizing a frame.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		PushSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "epclock_push_seconds",
			Help:    "Time spent pushing a frame to the display by refresh mode.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 13),
		}, []string{"mode"}),
		LateTicksTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "epclock_late_ticks_total",
			Help: "Ticks sampled noticeably after their second boundary.",
		}),
		TickLateSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "epclock_tick_late_seconds",
			Help:    "How far past the boundary late ticks were sampled.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
		LastFrame: f.NewGauge(prometheus.GaugeOpts{
			Name: "epclock_last_frame_timestamp_seconds",
			Help: "Unix time shown by the last pushed frame.",
		}),
	}
}

// FramePushed records one pushed frame showing at.
func (r *Registry) FramePushed(at time.Time, mode refresh.Mode, render, push time.Duration) {
	r.FramesTotal.WithLabelValues(mode.String()).Inc()
	r.RenderSeconds.Observe(render.Seconds())
	r.PushSeconds.WithLabelValues(mode.String()).Observe(push.Seconds())
	r.LastFrame.Set(float64(at.Unix()) + float64(at.Nanosecond())/1e9)
}

// TickLate records a late tick.
func (r *Registry) TickLate(d time.Duration) {
	r.LateTicksTotal.Inc()
	r.TickLateSeconds.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Registry) Serve(ctx context.Context, addr string, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
