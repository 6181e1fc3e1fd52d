package logger

import (
	"os"
	"path/filepath"
	"testing"
	"yara_assistant/src/model"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger(t *testing.T) {
	t.Cleanup(func() {
		Logger = zerolog.Nop()
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})
}

func TestInitLogger_FileJSON(t *testing.T) {
	resetLogger(t)
	path := filepath.Join(t.TempDir(), "logs", "yara.log")

	require.NoError(t, InitLogger(model.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	}))

	Debug().Msg("hidden")
	Warn().Str("session_id", "s1").Msg("visible")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, sonic.Unmarshal(data, &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, Service, entry["service"])
	assert.Equal(t, "s1", entry["session_id"])
	assert.Equal(t, "visible", entry["message"])
}

func TestInitLogger_Errors(t *testing.T) {
	resetLogger(t)

	assert.Error(t, InitLogger(model.LogConfig{Level: "loud"}))
	assert.Error(t, InitLogger(model.LogConfig{Level: "info", Output: "file"}))
}

func TestTimeFieldFormat(t *testing.T) {
	assert.Equal(t, zerolog.TimeFormatUnix, timeFieldFormat("UNIX"))
	assert.Equal(t, "2006-01-02T15:04:05.000Z07:00", timeFieldFormat("iso8601"))
	assert.Equal(t, "2006-01-02T15:04:05Z07:00", timeFieldFormat(""))
}
