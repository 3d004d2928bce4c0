//go:build tinygo

package main

import (
	"context"
	"log/slog"
	"time"

	"epclock/app"
	"epclock/face"
	"epclock/hal"
	"epclock/mono"
	"epclock/refresh"
)

func main() {
	logger := slog.New(slog.NewTextHandler(hal.SerialWriter(), nil))
	if err := run(logger); err != nil {
		logger.Error("clock stopped", "error", err)
	}
	select {}
}

func run(logger *slog.Logger) error {
	epd, err := hal.OpenPicoEPD()
	if err != nil {
		return err
	}
	defer epd.Close()

	// The panel is portrait; draw in landscape.
	b := epd.Bounds()
	buf := mono.New(b.Dx(), b.Dy(), mono.Rotate90)

	renderer, err := face.New(face.KindAnalog, face.Options{Margin: face.DefaultMargin})
	if err != nil {
		return err
	}
	loop, err := app.New(app.Config{
		Buffer:   buf,
		Display:  epd,
		Renderer: renderer,
		Policy:   refresh.New(refresh.CadenceHour, 12*time.Hour),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	return loop.Run(context.Background())
}
