// Package config loads archdraw settings from YAML with environment
// overrides for the AI endpoint and prompt template.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"archdraw/editor"
	"archdraw/geometry"
)

// ConfigFileName is looked up in the working directory when no path is given.
const ConfigFileName = "archdraw.yaml"

// Environment variables that override the file.
const (
	EnvAIEndpoint = "ARCHDRAW_AI_ENDPOINT"
	EnvAIPrefix   = "ARCHDRAW_AI_PREFIX"
	EnvAISuffix   = "ARCHDRAW_AI_SUFFIX"
)

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all archdraw configuration
type Config struct {
	AI     AIConfig     `yaml:"ai"`
	Canvas CanvasConfig `yaml:"canvas"`
	Log    LogConfig    `yaml:"log"`
}

// AIConfig holds the generation endpoint settings
type AIConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	PromptPrefix string        `yaml:"prompt_prefix"`
	PromptSuffix string        `yaml:"prompt_suffix"`
	Timeout      time.Duration `yaml:"timeout"`
	ErrorDisplay time.Duration `yaml:"error_display"`
}

// CanvasConfig holds the interaction constants
type CanvasConfig struct {
	ZoomMin        float64 `yaml:"zoom_min"`
	ZoomMax        float64 `yaml:"zoom_max"`
	PoolCapacity   int     `yaml:"pool_capacity"`
	FrameMinWidth  float64 `yaml:"frame_min_width"`
	FrameMinHeight float64 `yaml:"frame_min_height"`
	NudgeStep      float64 `yaml:"nudge_step"`
	PasteOffset    float64 `yaml:"paste_offset"`
	History        int     `yaml:"history"`
}

// LogConfig selects the log level and sink
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			Timeout:      45 * time.Second,
			ErrorDisplay: 3 * time.Second,
		},
		Canvas: CanvasConfig{
			ZoomMin:        geometry.DefaultMinZoom,
			ZoomMax:        geometry.DefaultMaxZoom,
			PoolCapacity:   1000,
			FrameMinWidth:  80,
			FrameMinHeight: 60,
			NudgeStep:      5,
			PasteOffset:    20,
			History:        50,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the config at path, or ConfigFileName when path is empty.
// A missing file yields the defaults. Keys present in the file replace the
// defaults, then the environment overrides apply and the result is
// validated.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides the AI settings from the environment. lookup is
// os.LookupEnv outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAIEndpoint); ok {
		c.AI.Endpoint = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvAIPrefix); ok {
		c.AI.PromptPrefix = v
	}
	if v, ok := lookup(EnvAISuffix); ok {
		c.AI.PromptSuffix = v
	}
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	cv := cfg.Canvas
	if cv.ZoomMin <= 0 || cv.ZoomMax < cv.ZoomMin {
		return fmt.Errorf("%w: zoom range must satisfy 0 < zoom_min <= zoom_max, got %g..%g",
			ErrInvalidConfig, cv.ZoomMin, cv.ZoomMax)
	}
	if cv.PoolCapacity <= 0 {
		return fmt.Errorf("%w: pool_capacity must be positive, got %d", ErrInvalidConfig, cv.PoolCapacity)
	}
	if cv.FrameMinWidth <= 0 || cv.FrameMinHeight <= 0 {
		return fmt.Errorf("%w: frame minimums must be positive, got %gx%g",
			ErrInvalidConfig, cv.FrameMinWidth, cv.FrameMinHeight)
	}
	if cv.NudgeStep <= 0 || cv.PasteOffset < 0 {
		return fmt.Errorf("%w: nudge_step must be positive and paste_offset non-negative", ErrInvalidConfig)
	}
	if cv.History <= 0 {
		return fmt.Errorf("%w: history must be positive, got %d", ErrInvalidConfig, cv.History)
	}
	if cfg.AI.Timeout <= 0 || cfg.AI.ErrorDisplay <= 0 {
		return fmt.Errorf("%w: ai timeout and error_display must be positive", ErrInvalidConfig)
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, s)
	}
	return level, nil
}

// Editor returns the editor constants derived from the canvas settings.
func (c *Config) Editor() editor.Config {
	cfg := editor.DefaultConfig()
	cfg.NudgeStep = c.Canvas.NudgeStep
	cfg.PasteOffset = c.Canvas.PasteOffset
	cfg.AIErrorDisplay = c.AI.ErrorDisplay
	cfg.HistoryDepth = c.Canvas.History
	return cfg
}

// NewLogger builds the logger described by Log. When a file is configured
// it is opened for append and must be closed by the caller through the
// returned closer; otherwise logs go to fallback.
func (c *Config) NewLogger(fallback io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = fallback
	var closer io.Closer = io.NopCloser(nil)
	if c.Log.File != "" {
		f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	}
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}
