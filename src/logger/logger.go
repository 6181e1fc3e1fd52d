package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"yara_assistant/src/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Service tags every log entry
const Service = "yara"

// Logger is disabled until InitLogger runs, which keeps tests quiet
var Logger = zerolog.Nop()

// InitLogger builds the global logger from the log section of the config
func InitLogger(config model.LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %w", config.Level, err)
	}

	output, err := openOutput(config.Output, config.FilePath)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = timeFieldFormat(config.TimeFormat)

	if strings.EqualFold(config.Format, "console") {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	}

	Logger = zerolog.New(output).With().
		Timestamp().
		Str("service", Service).
		Logger()
	log.Logger = Logger

	Logger.Debug().
		Str("level", level.String()).
		Str("format", config.Format).
		Str("output", config.Output).
		Msg("📝 Logger ready")
	return nil
}

func timeFieldFormat(name string) string {
	switch strings.ToLower(name) {
	case "unix":
		return zerolog.TimeFormatUnix
	case "iso8601":
		return "2006-01-02T15:04:05.000Z07:00"
	default:
		return time.RFC3339
	}
}

// openOutput resolves stdout, stderr or an append-only log file
func openOutput(output, path string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "stderr":
		return os.Stderr, nil
	case "file":
		if path == "" {
			return nil, fmt.Errorf("log output 'file' needs a file path")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%s': %w", path, err)
		}
		return file, nil
	default:
		return os.Stdout, nil
	}
}

func Info() *zerolog.Event {
	return Logger.Info()
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}

func Warn() *zerolog.Event {
	return Logger.Warn()
}

func Error() *zerolog.Event {
	return Logger.Error()
}
