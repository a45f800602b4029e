package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archdraw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, 45*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 1000, cfg.Canvas.PoolCapacity)
	assert.Equal(t, 0.25, cfg.Canvas.ZoomMin)
	assert.Equal(t, 3.0, cfg.Canvas.ZoomMax)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	t.Setenv(EnvAIEndpoint, "")
	os.Unsetenv(EnvAIEndpoint)

	path := writeConfig(t, `
ai:
  endpoint: http://localhost:8080/gen
  timeout: 10s
canvas:
  nudge_step: 10
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/gen", cfg.AI.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 3*time.Second, cfg.AI.ErrorDisplay)
	assert.Equal(t, 10.0, cfg.Canvas.NudgeStep)
	assert.Equal(t, 20.0, cfg.Canvas.PasteOffset)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Canvas, cfg.Canvas)

	_, err = Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"zoom":     "canvas:\n  zoom_min: 2\n  zoom_max: 1\n",
		"pool":     "canvas:\n  pool_capacity: 0\n",
		"frame":    "canvas:\n  frame_min_width: -1\n",
		"history":  "canvas:\n  history: 0\n",
		"timeout":  "ai:\n  timeout: 0s\n",
		"loglevel": "log:\n  level: chatty\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Load(writeConfig(t, "ai: [unclosed"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAIEndpoint: "  https://example.test/api  ",
		EnvAISuffix:   " please",
	}
	cfg := Default()
	cfg.AI.PromptPrefix = "keep"
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "https://example.test/api", cfg.AI.Endpoint)
	assert.Equal(t, "keep", cfg.AI.PromptPrefix)
	assert.Equal(t, " please", cfg.AI.PromptSuffix)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEditorConfig(t *testing.T) {
	cfg := Default()
	cfg.Canvas.NudgeStep = 7
	cfg.Canvas.History = 5
	ec := cfg.Editor()
	assert.Equal(t, 7.0, ec.NudgeStep)
	assert.Equal(t, 20.0, ec.PasteOffset)
	assert.Equal(t, 5, ec.HistoryDepth)
	assert.Equal(t, 3*time.Second, ec.AIErrorDisplay)
}

func TestNewLoggerWritesToFile(t *testing.T) {
	cfg := Default()
	cfg.Log.File = filepath.Join(t.TempDir(), "archdraw.log")
	logger, closer, err := cfg.NewLogger(nil)
	require.NoError(t, err)
	logger.Info("hello", "n", 1)
	logger.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello n=1")
	assert.NotContains(t, string(data), "hidden")
}
