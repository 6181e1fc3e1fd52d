package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"yara_assistant/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range RootCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["serve"])
	assert.True(t, names["chat"])
	assert.True(t, names["seed"])
}

func TestNewApp_OfflineDefaults(t *testing.T) {
	cfg := config.Default()

	app, err := NewApp(context.Background(), &cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Generator)
	assert.Nil(t, app.Embedder)
	assert.False(t, app.Data.Available())
	assert.Equal(t, []string{"memory", "nlu", "database", "low_confidence", "forced_fallback", "generation"}, app.Orchestrator.Nodes())
}

func TestNewApp_UnreachableRedisIsNonFatal(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.URL = "redis://127.0.0.1:1/0"
	cfg.Embedding.Provider = "mock"

	app, err := NewApp(context.Background(), &cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Embedder)
}

func TestRunChat(t *testing.T) {
	cfg := config.Default()
	cfg.Embedding.Provider = "mock"

	app, err := NewApp(context.Background(), &cfg)
	require.NoError(t, err)
	defer app.Close()

	in := strings.NewReader(strings.Join([]string{
		"My name is Sam",
		"",
		"what is my name?",
		"/memory",
		"/clear",
		"/memory",
		"/quit",
		"never read",
	}, "\n"))
	var out bytes.Buffer

	require.NoError(t, RunChat(context.Background(), app, "test", in, &out))

	text := out.String()
	assert.Contains(t, text, "Yara: Nice to meet you, Sam! I'll remember that during this chat. 😊")
	assert.Contains(t, text, "Yara: Your name is Sam. 😊")
	assert.Contains(t, text, "Yara: Here's what I remember:\n• name: sam")
	assert.Contains(t, text, "🧹 Memory and history cleared.")
	assert.Contains(t, text, "Yara: I don't have any information stored yet.")
	assert.Contains(t, text, "Goodbye!")
	assert.NotContains(t, text, "never read")

	session, err := app.Sessions.Get(context.Background(), "test")
	require.NoError(t, err)
	assert.Zero(t, session.History.Len())
}

func TestRunChat_EOF(t *testing.T) {
	cfg := config.Default()
	app, err := NewApp(context.Background(), &cfg)
	require.NoError(t, err)
	defer app.Close()

	var out bytes.Buffer
	require.NoError(t, RunChat(context.Background(), app, "", strings.NewReader("thanks"), &out))
	assert.Contains(t, out.String(), "Yara: ")
}

func TestSeedDatabaseAndServeData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "business.db")

	require.NoError(t, SeedDatabase(ctx, path, time.Now()))

	cfg := config.Default()
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = path

	app, err := NewApp(ctx, &cfg)
	require.NoError(t, err)
	defer app.Close()

	require.True(t, app.Data.Available())
	info, err := app.Data.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "products", "transactions"}, info.Tables)
}
