package model

import "time"

// ----------------------------------------------------
// ================ Config ================
// Config is the full runtime configuration. Values come from defaults, an optional
// YAML file and finally the environment (see src.ApplyEnv).
type Config struct {
	Log       LogConfig       `yaml:"log"`
	App       AppConfig       `yaml:"app"`
	Model     ModelConfig     `yaml:"model"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Session   SessionConfig   `yaml:"session"`
	Server    ServerConfig    `yaml:"server"`
}

// LogConfig holds configuration for the zerolog logger
type LogConfig struct {
	Level      string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format     string `yaml:"format" envconfig:"LOG_FORMAT"` // console, json
	Output     string `yaml:"output" envconfig:"LOG_OUTPUT"` // stdout, stderr, file
	FilePath   string `yaml:"file_path" envconfig:"LOG_FILE_PATH"`
	TimeFormat string `yaml:"time_format" envconfig:"LOG_TIME_FORMAT"`
}

// AppConfig holds the decision engine tuning values
type AppConfig struct {
	IntentThreshold          float64       `yaml:"intent_threshold" envconfig:"INTENT_THRESHOLD"`
	MaxHistoryLength         int           `yaml:"max_history_length" envconfig:"MAX_HISTORY_LENGTH"`
	MinResponseLength        int           `yaml:"min_response_length" envconfig:"MIN_RESPONSE_LENGTH"`
	MaxResponseLength        int           `yaml:"max_response_length" envconfig:"MAX_RESPONSE_LENGTH"`
	EnableResponseValidation bool          `yaml:"enable_response_validation" envconfig:"ENABLE_RESPONSE_VALIDATION"`
	ResponseTimeout          time.Duration `yaml:"response_timeout" envconfig:"RESPONSE_TIMEOUT"`
}

// ModelConfig selects and tunes the generation provider
type ModelConfig struct {
	Provider    string  `yaml:"provider" envconfig:"MODEL_PROVIDER"` // openai, ollama, deepseek, ark, anthropic, none
	Size        string  `yaml:"size" envconfig:"MODEL_SIZE"`         // small, medium, large
	Name        string  `yaml:"name" envconfig:"MODEL_NAME"`
	BaseURL     string  `yaml:"base_url" envconfig:"MODEL_BASE_URL"`
	APIKey      string  `yaml:"api_key" envconfig:"MODEL_API_KEY"`
	MaxLength   int     `yaml:"max_length" envconfig:"MODEL_MAX_LENGTH"`
	Temperature float64 `yaml:"temperature" envconfig:"MODEL_TEMPERATURE"`
}

// EmbeddingConfig selects the embedding capability used by the semantic scorer
type EmbeddingConfig struct {
	Provider  string        `yaml:"provider" envconfig:"EMBEDDING_PROVIDER"` // ollama, mock, none
	Model     string        `yaml:"model" envconfig:"EMBEDDING_MODEL"`
	BaseURL   string        `yaml:"base_url" envconfig:"EMBEDDING_BASE_URL"`
	CacheSize int64         `yaml:"cache_size" envconfig:"EMBEDDING_CACHE_SIZE"`
	CacheTTL  time.Duration `yaml:"cache_ttl" envconfig:"EMBEDDING_CACHE_TTL"`
}

// DatabaseConfig points at the backing business database
type DatabaseConfig struct {
	Type string `yaml:"type" envconfig:"DB_TYPE"` // sqlite or empty for none
	Path string `yaml:"path" envconfig:"DB_PATH"`
}

// RedisConfig enables the shared embedding cache
type RedisConfig struct {
	URL string        `yaml:"url" envconfig:"REDIS_URL"`
	TTL time.Duration `yaml:"ttl" envconfig:"REDIS_TTL"`
}

// SessionConfig bounds the in-process session registry
type SessionConfig struct {
	IdleTTL       time.Duration `yaml:"idle_ttl" envconfig:"SESSION_IDLE_TTL"`
	SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"SESSION_SWEEP_INTERVAL"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host  string `yaml:"host" envconfig:"HOST"`
	Port  int    `yaml:"port" envconfig:"PORT"`
	Debug bool   `yaml:"debug" envconfig:"DEBUG"`
}
