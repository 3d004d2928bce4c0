//go:build !tinygo

package hal

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"epclock/gfx"
	"epclock/mono"
	"epclock/refresh"

	"golang.org/x/image/draw"
)

var _ Sink = (*Headless)(nil)

// HeadlessConfig controls the no-window sink.
type HeadlessConfig struct {
	// Dir receives one PNG per frame when non-empty.
	Dir string
	// Scale enlarges snapshots by an integer factor. Defaults to 1.
	Scale  int
	Logger *slog.Logger
}

// Headless logs each frame and optionally writes it to disk.
type Headless struct {
	cfg    HeadlessConfig
	log    *slog.Logger
	frames int
}

// NewHeadless prepares the snapshot directory.
func NewHeadless(cfg HeadlessConfig) (*Headless, error) {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("headless: %w", err)
		}
	}
	return &Headless{cfg: cfg, log: cfg.Logger}, nil
}

// Frames returns how many frames were pushed.
func (h *Headless) Frames() int { return h.frames }

// PushFrame implements app.Display.
func (h *Headless) PushFrame(buf *mono.Buffer, mode refresh.Mode) error {
	h.frames++
	args := []any{"frame", h.frames, "mode", mode, "ink", buf.Count(gfx.On)}
	if h.cfg.Dir != "" {
		path := filepath.Join(h.cfg.Dir, fmt.Sprintf("frame-%06d-%s.png", h.frames, mode))
		if err := writePNG(path, paperView(buf, false), h.cfg.Scale); err != nil {
			return err
		}
		args = append(args, "file", path)
	}
	h.log.Debug("headless frame", args...)
	return nil
}

// Close implements Sink.
func (h *Headless) Close() error { return nil }

func writePNG(path string, img *image.Gray, scale int) error {
	var out image.Image = img
	if scale > 1 {
		r := img.Bounds()
		dst := image.NewGray(image.Rect(0, 0, r.Dx()*scale, r.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, r, draw.Src, nil)
		out = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("headless: %w", err)
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return fmt.Errorf("headless: encode %s: %w", path, err)
	}
	return f.Close()
}
