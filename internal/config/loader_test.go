package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.7, cfg.App.IntentThreshold)
	assert.Equal(t, 10, cfg.App.MaxHistoryLength)
	assert.Equal(t, 10, cfg.App.MinResponseLength)
	assert.Equal(t, 500, cfg.App.MaxResponseLength)
	assert.True(t, cfg.App.EnableResponseValidation)
	assert.NoError(t, Validate(cfg))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 40*time.Minute, cfg.Session.IdleTTL)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlText := `
app:
  intent_threshold: 0.6
  max_history_length: 4
model:
  provider: ollama
  size: medium
session:
  idle_ttl: 15m
`
	require.NoError(t, os.WriteFile(path, []byte(yamlText), 0o644))

	t.Setenv("MAX_HISTORY_LENGTH", "6")
	t.Setenv("ENABLE_RESPONSE_VALIDATION", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.App.IntentThreshold, "yaml value kept when env is unset")
	assert.Equal(t, 6, cfg.App.MaxHistoryLength, "env overrides yaml")
	assert.False(t, cfg.App.EnableResponseValidation)
	assert.Equal(t, "ollama", cfg.Model.Provider)
	assert.Equal(t, 15*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 500, cfg.App.MaxResponseLength, "untouched default")
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*testing.T) error
	}{
		{"threshold above one", func(t *testing.T) error {
			cfg := Default()
			cfg.App.IntentThreshold = 1.5
			return Validate(cfg)
		}},
		{"zero history", func(t *testing.T) error {
			cfg := Default()
			cfg.App.MaxHistoryLength = 0
			return Validate(cfg)
		}},
		{"min above max", func(t *testing.T) error {
			cfg := Default()
			cfg.App.MinResponseLength = 600
			return Validate(cfg)
		}},
		{"unknown database", func(t *testing.T) error {
			cfg := Default()
			cfg.Database.Type = "oracle"
			return Validate(cfg)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.mutate(t))
		})
	}
}
