// Package config reads the optional slideclock.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "slideclock.yaml"

// Surface names accepted in display.surface.
const (
	SurfaceTerminal = "terminal"
	SurfaceRaster   = "raster"
)

// Config represents the optional slideclock.yaml configuration.
type Config struct {
	Version string        `yaml:"version,omitempty"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// DisplayConfig sizes the window and the loop.
type DisplayConfig struct {
	Width       int    `yaml:"width,omitempty"`
	Height      int    `yaml:"height,omitempty"`
	LayerY      *int   `yaml:"layer_y,omitempty"`
	LayerHeight int    `yaml:"layer_height,omitempty"`
	FPS         int    `yaml:"fps,omitempty"`
	Surface     string `yaml:"surface,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	// File receives log output while the terminal surface owns the screen.
	File string `yaml:"file,omitempty"`
}

// MetricsConfig contains the metrics endpoint. An empty address disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Resolved contains configuration values with defaults applied.
type Resolved struct {
	Version       string
	Width         int
	Height        int
	LayerY        int
	LayerHeight   int
	FrameInterval time.Duration
	Surface       string
	LogLevel      string
	LogFile       string
	MetricsAddr   string
}

// Defaults returns the values used when nothing is configured.
func Defaults() Resolved {
	return Resolved{
		Version:       "v1",
		Width:         144,
		Height:        168,
		LayerY:        55,
		LayerHeight:   50,
		FrameInterval: time.Second / 30,
		Surface:       SurfaceTerminal,
		LogLevel:      "info",
	}
}

// LoadOptional reads slideclock.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName), true)
}

// LoadFile reads the configuration at path. A missing file is an error
// unless optional is set.
func LoadFile(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

// Resolve applies defaults to cfg and validates the result.
func Resolve(cfg *Config) (*Resolved, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	r := Defaults()

	if v := strings.TrimSpace(cfg.Version); v != "" {
		if !strings.HasPrefix(v, "v") {
			v = "v" + v
		}
		r.Version = v
	}
	if cfg.Display.Width != 0 {
		r.Width = cfg.Display.Width
	}
	if cfg.Display.Height != 0 {
		r.Height = cfg.Display.Height
	}
	if cfg.Display.LayerY != nil {
		r.LayerY = *cfg.Display.LayerY
	}
	if cfg.Display.LayerHeight != 0 {
		r.LayerHeight = cfg.Display.LayerHeight
	}
	if cfg.Display.FPS != 0 {
		if cfg.Display.FPS < 0 {
			return nil, fmt.Errorf("display.fps must be positive, got %d", cfg.Display.FPS)
		}
		r.FrameInterval = time.Second / time.Duration(cfg.Display.FPS)
	}
	if s := strings.TrimSpace(cfg.Display.Surface); s != "" {
		r.Surface = strings.ToLower(s)
	}
	if l := strings.TrimSpace(cfg.Log.Level); l != "" {
		r.LogLevel = l
	}
	r.LogFile = strings.TrimSpace(cfg.Log.File)
	r.MetricsAddr = strings.TrimSpace(cfg.Metrics.Addr)

	if err := validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

func validate(r *Resolved) error {
	if !semver.IsValid(r.Version) {
		return fmt.Errorf("invalid config version %q", r.Version)
	}
	if major := semver.Major(r.Version); major != "v1" {
		return fmt.Errorf("unsupported config version %s (want v1)", major)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", r.Width, r.Height)
	}
	if r.LayerHeight <= 0 {
		return fmt.Errorf("display.layer_height must be positive, got %d", r.LayerHeight)
	}
	if r.LayerY < 0 || r.LayerY+r.LayerHeight > r.Height {
		return fmt.Errorf("text layer y=%d h=%d does not fit a %d pixel display", r.LayerY, r.LayerHeight, r.Height)
	}
	switch r.Surface {
	case SurfaceTerminal, SurfaceRaster:
	default:
		return fmt.Errorf("unknown display surface %q", r.Surface)
	}
	return nil
}
