package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"yara_assistant/src"
	"yara_assistant/src/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default returns the built-in configuration
func Default() model.Config {
	return model.Config{
		Log: model.LogConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stdout",
			FilePath:   "logs/yara.log",
			TimeFormat: "rfc3339",
		},
		App: model.AppConfig{
			IntentThreshold:          0.7,
			MaxHistoryLength:         10,
			MinResponseLength:        10,
			MaxResponseLength:        500,
			EnableResponseValidation: true,
			ResponseTimeout:          30 * time.Second,
		},
		Model: model.ModelConfig{
			Provider: "none",
			Size:     "small",
		},
		Embedding: model.EmbeddingConfig{
			Provider:  "none",
			Model:     "all-minilm",
			BaseURL:   "http://localhost:11434",
			CacheSize: 1 << 24,
			CacheTTL:  24 * time.Hour,
		},
		Database: model.DatabaseConfig{
			Path: "data/business.db",
		},
		Redis: model.RedisConfig{
			TTL: 24 * time.Hour,
		},
		Session: model.SessionConfig{
			IdleTTL:       40 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
		Server: model.ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (skipped when
// path is empty or the file does not exist), then .env and the environment.
func Load(path string) (*model.Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// optional file
		case err != nil:
			return nil, fmt.Errorf("error reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("error parsing YAML: %w", err)
			}
		}
	}

	// A missing .env is fine, real environment variables still apply
	_ = godotenv.Load()

	if err := src.ApplyEnv(&config); err != nil {
		return nil, err
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &config, nil
}

// Validate rejects configurations the engine cannot run with
func Validate(config model.Config) error {
	app := config.App
	if app.IntentThreshold < 0 || app.IntentThreshold > 1 {
		return fmt.Errorf("INTENT_THRESHOLD must be within [0,1], got %v", app.IntentThreshold)
	}
	if app.MaxHistoryLength < 1 {
		return fmt.Errorf("MAX_HISTORY_LENGTH must be positive, got %d", app.MaxHistoryLength)
	}
	if app.MinResponseLength < 0 || app.MinResponseLength > app.MaxResponseLength {
		return fmt.Errorf("MIN_RESPONSE_LENGTH (%d) must be between 0 and MAX_RESPONSE_LENGTH (%d)",
			app.MinResponseLength, app.MaxResponseLength)
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", config.Server.Port)
	}
	if config.Database.Type != "" && config.Database.Type != "sqlite" {
		return fmt.Errorf("DB_TYPE %q is not supported", config.Database.Type)
	}
	return nil
}
