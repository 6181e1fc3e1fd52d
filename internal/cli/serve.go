package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	"yara_assistant/internal/api"
	"yara_assistant/src/logger"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("host") {
			appConfig.Server.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			appConfig.Server.Port = servePort
		}
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (overrides HOST)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides PORT)")
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Msg("🚀 Starting Yara - Your Friendly AI Assistant...")

	app, err := NewApp(ctx, appConfig)
	if err != nil {
		return err
	}
	defer app.Close()

	go app.Sessions.Run(ctx, appConfig.Session.SweepInterval)

	router := api.NewRouter(api.Deps{
		Orchestrator:   app.Orchestrator,
		Sessions:       app.Sessions,
		Data:           app.Data,
		ModelLoaded:    app.Generator != nil,
		EmbedderLoaded: app.Embedder != nil,
	})

	addr := net.JoinHostPort(appConfig.Server.Host, strconv.Itoa(appConfig.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      appConfig.App.ResponseTimeout + 10*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("🌐 HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("❌ Graceful shutdown failed")
		return err
	}
	logger.Info().Msg("👋 Server stopped")
	return nil
}
