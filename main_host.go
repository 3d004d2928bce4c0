//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"epclock/app"
	"epclock/face"
	"epclock/hal"
	"epclock/internal/buildinfo"
	"epclock/internal/config"
	"epclock/internal/metrics"
	"epclock/mono"
	"epclock/refresh"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Parse("epclock", args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if cfg.ShowVersion {
		fmt.Println(buildinfo.String())
		return nil
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	kind, err := cfg.FaceKind()
	if err != nil {
		return err
	}
	cadence, err := cfg.RefreshCadence()
	if err != nil {
		return err
	}
	rot, err := cfg.MonoRotation()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	renderer, err := face.New(kind, face.Options{Margin: cfg.Margin, DateOverlay: cfg.Date})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loopCfg := app.Config{
		Renderer:  renderer,
		Policy:    refresh.New(cadence, cfg.MaxFullInterval),
		Logger:    logger,
		MaxFrames: cfg.Frames,
	}
	if cfg.MetricsAddr != "" {
		m := metrics.New()
		loopCfg.Observer = m
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	logger.Info("starting epclock", buildinfo.Attr(),
		"face", kind, "cadence", cadence, "sink", cfg.Sink, "rotation", rot.Degrees())

	switch cfg.Sink {
	case config.SinkHeadless:
		sink, err := hal.NewHeadless(hal.HeadlessConfig{Dir: cfg.PNGDir, Scale: cfg.Scale, Logger: logger})
		if err != nil {
			return err
		}
		defer sink.Close()
		loopCfg.Buffer = mono.New(cfg.Width, cfg.Height, rot)
		loopCfg.Display = sink
		return runLoop(ctx, loopCfg)

	case config.SinkEPD:
		epd, err := hal.OpenEPD(hal.EPDConfig{SPI: cfg.SPI, Logger: logger})
		if err != nil {
			return err
		}
		defer func() {
			if err := epd.Close(); err != nil {
				logger.Warn("epd shutdown", "error", err)
			}
		}()
		b := epd.Bounds()
		loopCfg.Buffer = mono.New(b.Dx(), b.Dy(), rot)
		loopCfg.Display = epd
		return runLoop(ctx, loopCfg)

	default:
		loopCfg.Buffer = mono.New(cfg.Width, cfg.Height, rot)
		b := loopCfg.Buffer.Bounds()
		win := hal.NewWindow(hal.WindowConfig{Width: b.Dx(), Height: b.Dy(), Scale: cfg.Scale})
		loopCfg.Display = win
		return hal.RunWindow(ctx, win, func(ctx context.Context) error {
			return runLoop(ctx, loopCfg)
		})
	}
}

func runLoop(ctx context.Context, cfg app.Config) error {
	loop, err := app.New(cfg)
	if err != nil {
		return err
	}
	return loop.Run(ctx)
}
