package cli

import (
	"context"
	"errors"
	"yara_assistant/internal/intent"
	"yara_assistant/internal/nodes"
	"yara_assistant/internal/services"
	"yara_assistant/internal/storage"
	"yara_assistant/src/llm"
	"yara_assistant/src/logger"
	"yara_assistant/src/model"
	redisstore "yara_assistant/src/storage"
)

// App is the fully wired assistant shared by the serve and chat commands
type App struct {
	Config       *model.Config
	Orchestrator *nodes.Orchestrator
	Sessions     *storage.MemorySessionManager
	Data         services.BusinessData
	Generator    llm.Generator
	Embedder     llm.Embedder

	closers []func() error
}

// NewApp wires every capability from config. Optional capabilities that fail
// to initialize are logged and left out so the assistant still answers from
// memory rules and fallbacks.
func NewApp(ctx context.Context, config *model.Config) (*App, error) {
	app := &App{Config: config}

	var l2 llm.VectorStore
	if config.Redis.URL != "" {
		rs, err := redisstore.NewRedisStorage(ctx, config.Redis.URL, config.Redis.TTL)
		if err != nil {
			logger.Warn().Err(err).Msg("⚠️ Redis unavailable, embedding cache is process-local")
		} else {
			l2 = rs
			app.closers = append(app.closers, rs.Close)
		}
	}

	embedder, err := llm.NewEmbedder(config.Embedding, l2)
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Embedder unavailable, pattern scoring only")
		embedder = nil
	}
	if cached, ok := embedder.(*llm.CachedEmbedder); ok {
		app.closers = append(app.closers, func() error {
			cached.Close()
			return nil
		})
	}
	app.Embedder = embedder

	classifier := intent.NewClassifier(embedder, config.App.IntentThreshold)
	if classifier.Semantic().Available() {
		if err := classifier.Semantic().Warmup(ctx); err != nil {
			logger.Warn().Err(err).Msg("⚠️ Exemplar index not built, will retry on first use")
		}
	}

	app.Data = services.Unavailable{}
	if config.Database.Type == "sqlite" {
		store, err := services.NewSQLStore(ctx, config.Database.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("⚠️ Business database unavailable")
		} else {
			app.Data = store
			app.closers = append(app.closers, store.Close)
		}
	}

	generator, err := llm.NewGenerator(ctx, config.Model)
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Generation model unavailable, fallbacks only")
		generator = nil
	}
	app.Generator = generator

	app.Orchestrator, err = nodes.NewOrchestrator(nodes.Options{
		Classifier: classifier,
		Data:       app.Data,
		Generator:  generator,
		Validator: nodes.NewValidator(
			config.App.EnableResponseValidation,
			config.App.MinResponseLength,
			config.App.MaxResponseLength,
		),
		Timeout: config.App.ResponseTimeout,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Sessions = storage.NewMemorySessionManager(config.Session.IdleTTL, config.App.MaxHistoryLength)
	return app, nil
}

// Close releases every opened resource
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
