package src

import (
	"fmt"
	"yara_assistant/src/model"

	"github.com/kelseyhightower/envconfig"
)

// ApplyEnv overrides config values with environment variables. Only variables that
// are set are applied, so defaults and YAML values survive. Every field can be set
// by its short name (INTENT_THRESHOLD) or its sectioned name (APP_INTENT_THRESHOLD).
func ApplyEnv(config *model.Config) error {
	err := envconfig.Process("", config)
	if err != nil {
		return fmt.Errorf("error processing environment configuration: %w", err)
	}

	return nil
}
