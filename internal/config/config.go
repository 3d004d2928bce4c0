// Package config resolves the clock's runtime settings: built-in defaults,
// then an optional YAML file, then command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"epclock/face"
	"epclock/mono"
	"epclock/refresh"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// AutoRotation lets the sink pick the rotation: 90 for the portrait epd
// panel, 0 otherwise.
const AutoRotation = -1

// Sink names.
const (
	SinkWindow   = "window"
	SinkHeadless = "headless"
	SinkEPD      = "epd"
)

// Config holds every setting. Width and Height are ignored by the epd sink,
// which uses the panel's own resolution.
type Config struct {
	Face            string        `yaml:"face"`
	Cadence         string        `yaml:"cadence"`
	Sink            string        `yaml:"sink"`
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	Rotation        int           `yaml:"rotation"`
	Margin          int           `yaml:"margin"`
	Date            bool          `yaml:"date"`
	PNGDir          string        `yaml:"png_dir"`
	Scale           int           `yaml:"scale"`
	Frames          int           `yaml:"frames"`
	MetricsAddr     string        `yaml:"metrics_addr"`
	LogLevel        string        `yaml:"log_level"`
	MaxFullInterval time.Duration `yaml:"max_full_interval"`
	SPI             string        `yaml:"spi"`

	// Path is the file given with --config, if any.
	Path string `yaml:"-"`
	// ShowVersion is set by --version.
	ShowVersion bool `yaml:"-"`
}

// Default returns the settings used when nothing overrides them: a
// 256x256 analog face in a window at twice its size.
func Default() *Config {
	return &Config{
		Face:            face.KindAnalog.String(),
		Cadence:         refresh.CadenceHour.String(),
		Sink:            SinkWindow,
		Width:           256,
		Height:          256,
		Rotation:        AutoRotation,
		Margin:          face.DefaultMargin,
		Scale:           2,
		LogLevel:        "info",
		MaxFullInterval: 12 * time.Hour,
	}
}

// Parse builds a Config from command-line arguments. A file named by
// --config is applied first and the flags on top of it. It returns
// pflag.ErrHelp when -h or --help is given.
func Parse(name string, args []string) (*Config, error) {
	cfg := Default()
	if err := cfg.flagSet(name).Parse(args); err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		fromFile, err := LoadFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := fromFile.flagSet(name).Parse(args); err != nil {
			return nil, err
		}
		cfg = fromFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a YAML file over the defaults. Unknown keys are errors.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func (c *Config) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&c.Path, "config", c.Path, "YAML settings file; flags override its values")
	fs.StringVar(&c.Face, "face", c.Face, "clock face: analog, sectors or digital")
	fs.StringVar(&c.Cadence, "cadence", c.Cadence, "full refresh boundary: minute, hour or quarterday")
	fs.StringVar(&c.Sink, "sink", c.Sink, "display: window, headless or epd")
	fs.IntVar(&c.Width, "width", c.Width, "surface width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "surface height in pixels")
	fs.IntVar(&c.Rotation, "rotation", c.Rotation, "clockwise rotation of the drawing: 0, 90, 180 or 270 (-1 = 90 for epd, else 0)")
	fs.IntVar(&c.Margin, "margin", c.Margin, "gap between the face and the border in pixels")
	fs.BoolVar(&c.Date, "date", c.Date, "draw the date in the top-left corner")
	fs.StringVar(&c.PNGDir, "png-dir", c.PNGDir, "headless sink: write every frame as PNG into this directory")
	fs.IntVar(&c.Scale, "scale", c.Scale, "window and PNG magnification")
	fs.IntVar(&c.Frames, "frames", c.Frames, "stop after N frames (0 = run forever)")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "serve Prometheus metrics on this address")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.DurationVar(&c.MaxFullInterval, "max-full-interval", c.MaxFullInterval, "force a full refresh at least this often (0 disables)")
	fs.StringVar(&c.SPI, "spi", c.SPI, "epd sink: SPI port name (empty = first available)")
	fs.BoolVar(&c.ShowVersion, "version", c.ShowVersion, "print the version and exit")
	return fs
}

// Usage returns the flag help text.
func Usage(name string) string {
	return Default().flagSet(name).FlagUsages()
}

// Validate rejects unknown names and non-positive sizes.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.FaceKind(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.RefreshCadence(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.MonoRotation(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Sink {
	case SinkWindow, SinkHeadless, SinkEPD:
	default:
		errs = append(errs, fmt.Errorf("unknown sink %q", c.Sink))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale %d must be positive", c.Scale))
	}
	if c.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin %d is negative", c.Margin))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames %d is negative", c.Frames))
	}
	if c.MaxFullInterval < 0 {
		errs = append(errs, fmt.Errorf("max full interval %v is negative", c.MaxFullInterval))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// FaceKind parses Face.
func (c *Config) FaceKind() (face.Kind, error) { return face.ParseKind(c.Face) }

// RefreshCadence parses Cadence.
func (c *Config) RefreshCadence() (refresh.Cadence, error) { return refresh.ParseCadence(c.Cadence) }

// MonoRotation parses Rotation, resolving AutoRotation for the sink.
func (c *Config) MonoRotation() (mono.Rotation, error) {
	if c.Rotation == AutoRotation {
		if c.Sink == SinkEPD {
			return mono.Rotate90, nil
		}
		return mono.Rotate0, nil
	}
	return mono.ParseRotation(c.Rotation)
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
