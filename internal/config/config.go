// Package config provides configuration loading from a YAML file and
// environment variables. Environment variables take precedence for dev flexibility.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/phinze/compassdeck/internal/compass"
	"gopkg.in/yaml.v3"
)

// Defaults for everything outside the compass options.
const (
	DefaultFPS        = 60
	DefaultRoverSpeed = 240.0
	DefaultRoverSize  = 18
	DefaultBrightness = 80
	DefaultSwipeHold  = 300 * time.Millisecond
	DefaultVolume     = 0.4
	DefaultTUIRadius  = 12.0
	DefaultTUIHistory = 60
)

// Config holds the full application configuration, assembled from YAML + env.
type Config struct {
	Compass  compass.Options `yaml:"compass"`
	Render   RenderConfig    `yaml:"render"`
	Rover    RoverConfig     `yaml:"rover"`
	Hardware HardwareConfig  `yaml:"hardware"`
	Feedback FeedbackConfig  `yaml:"feedback"`
	TUI      TUIConfig       `yaml:"tui"`
}

// RenderConfig controls the render loop and marker colours.
type RenderConfig struct {
	FPS          int    `yaml:"fps"`
	BaseColor    string `yaml:"base_color"`
	SegmentColor string `yaml:"segment_color"`
	ThumbColor   string `yaml:"thumb_color"`
}

// RoverConfig controls the avatar driven by the speed signal.
type RoverConfig struct {
	// Speed is the avatar speed in pixels per second at 100%.
	Speed float64 `yaml:"speed"`
	Size  int     `yaml:"size"`
}

// HardwareConfig holds Stream Deck settings.
type HardwareConfig struct {
	Brightness int `yaml:"brightness"`
	// SwipeHold is how long a swipe keeps the stick deflected before the
	// synthetic release.
	SwipeHold time.Duration `yaml:"swipe_hold"`
}

// FeedbackConfig holds audio feedback settings.
type FeedbackConfig struct {
	Audio  bool    `yaml:"audio"`
	Volume float64 `yaml:"volume"`
}

// TUIConfig holds terminal host settings. The terminal works in cells, so it
// carries its own travel radius.
type TUIConfig struct {
	MaxDistance float64 `yaml:"max_distance"`
	History     int     `yaml:"history"`
}

// Default returns a Config with every field populated.
func Default() *Config {
	return &Config{
		Compass: compass.DefaultOptions(),
		Render: RenderConfig{
			FPS:          DefaultFPS,
			BaseColor:    "#5a5a5a",
			SegmentColor: "#8c8c8c",
			ThumbColor:   "#ffc832",
		},
		Rover: RoverConfig{
			Speed: DefaultRoverSpeed,
			Size:  DefaultRoverSize,
		},
		Hardware: HardwareConfig{
			Brightness: DefaultBrightness,
			SwipeHold:  DefaultSwipeHold,
		},
		Feedback: FeedbackConfig{
			Volume: DefaultVolume,
		},
		TUI: TUIConfig{
			MaxDistance: DefaultTUIRadius,
			History:     DefaultTUIHistory,
		},
	}
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "compassdeck")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if p := os.Getenv("COMPASSDECK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load assembles configuration from the default YAML file and environment
// variables. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFile(DefaultConfigPath())
}

// LoadFile is Load with an explicit path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	// 1. YAML on top of defaults
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// 2. Environment variables override everything
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("COMPASS_MAX_DISTANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("COMPASS_MAX_DISTANCE: %w", err)
		}
		cfg.Compass.MaxDistance = f
	}
	if v := os.Getenv("COMPASS_SINGLE_AXIS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COMPASS_SINGLE_AXIS: %w", err)
		}
		cfg.Compass.SingleAxisLock = b
	}
	if v := os.Getenv("COMPASS_SEGMENTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COMPASS_SEGMENTS: %w", err)
		}
		cfg.Compass.SegmentCount = n
	}
	if v := os.Getenv("COMPASSDECK_FPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COMPASSDECK_FPS: %w", err)
		}
		cfg.Render.FPS = n
	}
	return nil
}

// CompassOptions returns the validated compass options.
func (c *Config) CompassOptions() (compass.Options, error) {
	if err := c.Compass.Validate(); err != nil {
		return compass.Options{}, err
	}
	return c.Compass, nil
}

// FrameInterval returns the render loop period derived from Render.FPS.
func (c *Config) FrameInterval() time.Duration {
	fps := c.Render.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// DeviceBrightness returns Hardware.Brightness clamped to 0-100.
func (c *Config) DeviceBrightness() byte {
	return ClampBrightness(c.Hardware.Brightness)
}

// ClampBrightness clamps a brightness percentage to 0-100.
func ClampBrightness(v int) byte {
	return byte(min(max(v, 0), 100))
}

// WriteConfigFile writes cfg to the default config path.
func WriteConfigFile(cfg *Config) error {
	return WriteFile(DefaultConfigPath(), cfg)
}

// WriteFile writes cfg as YAML to path, creating the directory if needed.
func WriteFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". Invalid input yields fallback.
func ParseColor(s string, fallback color.RGBA) color.RGBA {
	if len(s) != 7 && len(s) != 9 || s[0] != '#' {
		return fallback
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return fallback
	}
	if len(s) == 7 {
		return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
	}
	return color.RGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}
}
