// Package config loads the harness settings from TOML.
//
// A file only needs the keys it changes; everything else keeps the value from Default.
//
//	[window]
//	title = "waves"
//	width = 1920
//	height = 1080
//
//	[clock]
//	target_rate = 120
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Present mode names accepted in [renderer].present_mode.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// Config is the full harness configuration.
type Config struct {
	Window    WindowConfig   `toml:"window"`
	Clock     ClockConfig    `toml:"clock"`
	Renderer  RendererConfig `toml:"renderer"`
	Log       LogConfig      `toml:"log"`
	Profiling bool           `toml:"profiling"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
	HighDPI   bool   `toml:"high_dpi"`
}

type ClockConfig struct {
	TargetRate float64 `toml:"target_rate"`
	MaxSteps   int     `toml:"max_steps"`
	// UnfocusedPollMS is the sleep between event polls while the window is unfocused.
	UnfocusedPollMS int `toml:"unfocused_poll_ms"`
}

type RendererConfig struct {
	PresentMode   string     `toml:"present_mode"`
	MSAA          int        `toml:"msaa"`
	ClearColor    [4]float64 `toml:"clear_color"`
	ForceSoftware bool       `toml:"force_software"`
}

type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default settings
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "oxy-harness",
			Width:     1280,
			Height:    720,
			Resizable: true,
			HighDPI:   true,
		},
		Clock: ClockConfig{
			TargetRate:      60,
			MaxSteps:        3,
			UnfocusedPollMS: 200,
		},
		Renderer: RendererConfig{
			PresentMode: PresentModeVSync,
			MSAA:        1,
			ClearColor:  [4]float64{0.1, 0.2, 0.3, 1},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the TOML file at path over Default and validates the result.
// An empty path returns Default.
//
// Parameters:
//   - path: the file to read, or ""
//
// Returns:
//   - Config: the loaded settings
//   - error: a read, decode or validation error (validation errors wrap ErrInvalid)
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data over Default and validates the result. Unknown keys are rejected.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the decoded settings
//   - error: a decode or validation error
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalid
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Clock.TargetRate <= 1:
		return fmt.Errorf("%w: clock.target_rate %v must be greater than 1", ErrInvalid, c.Clock.TargetRate)
	case c.Clock.MaxSteps < 1:
		return fmt.Errorf("%w: clock.max_steps %d must be at least 1", ErrInvalid, c.Clock.MaxSteps)
	case c.Clock.UnfocusedPollMS <= 0:
		return fmt.Errorf("%w: clock.unfocused_poll_ms %d must be positive", ErrInvalid, c.Clock.UnfocusedPollMS)
	case c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4:
		return fmt.Errorf("%w: renderer.msaa %d must be 1 or 4", ErrInvalid, c.Renderer.MSAA)
	}

	switch strings.ToLower(c.Renderer.PresentMode) {
	case PresentModeVSync, PresentModeUncapped:
	default:
		return fmt.Errorf("%w: renderer.present_mode %q", ErrInvalid, c.Renderer.PresentMode)
	}

	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: renderer.clear_color[%d] = %v outside [0, 1]", ErrInvalid, i, v)
		}
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// UnfocusedPollInterval returns Clock.UnfocusedPollMS as a duration.
func (c ClockConfig) UnfocusedPollInterval() time.Duration {
	return time.Duration(c.UnfocusedPollMS) * time.Millisecond
}

// Uncapped reports whether the present mode disables vsync.
func (c RendererConfig) Uncapped() bool {
	return strings.EqualFold(c.PresentMode, PresentModeUncapped)
}

// SlogLevel parses Level. An empty level is Info.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, c.Level)
	}
	return level, nil
}
