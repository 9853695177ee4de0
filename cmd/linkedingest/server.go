package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/linkedingest/linkedingest/internal/api"
	"github.com/linkedingest/linkedingest/internal/config"
	"github.com/linkedingest/linkedingest/internal/ingest"
	"github.com/linkedingest/linkedingest/internal/storage"
	"github.com/linkedingest/linkedingest/internal/upstream"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the linkedingest server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "linkedingest version %s\n", version)

	// .env is optional; real deployments set the variables directly.
	if err := godotenv.Load(); err == nil {
		printStep("loaded credentials from .env")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening audit journal: %w", err)
	}
	defer store.Close()

	// An upstream session failure leaves the service running degraded:
	// every request answers 503 until the operator fixes the credentials.
	coordinator := buildCoordinator(cfg, store)

	deps := api.Deps{History: store}
	if coordinator != nil {
		deps.Ingest = coordinator
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(deps),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// MCP runs on stdio alongside the HTTP API.
	stdioSrv := server.NewStdioServer(api.NewMCPServer(deps))
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildCoordinator wires the ingest pipeline, or returns nil when the
// upstream session cannot be established.
func buildCoordinator(cfg config.Config, store *storage.Store) *ingest.Coordinator {
	client, err := upstream.New(upstream.Config{
		BaseURL:  cfg.Upstream.BaseURL,
		Username: cfg.Upstream.Username,
		Password: cfg.Upstream.Password,
	})
	if err != nil {
		var challenge *upstream.ChallengeError
		if errors.As(err, &challenge) {
			printError("upstream demands an interactive challenge; log in manually and retry: %v", err)
		} else {
			printError("upstream session failed: %v", err)
		}
		slog.Error("running degraded: ingest disabled", "error", err)
		return nil
	}

	pacer := ingest.NewPacer(cfg.Pacing.MinDelay(), cfg.Pacing.MaxDelay(), cfg.Pacing.NoiseProbability, client)
	cache := ingest.NewCache(cfg.Cache.TTL())

	return ingest.NewCoordinator(client, pacer, cache, store, ingest.Options{
		CacheEnabled:  cfg.Cache.Enabled,
		PacingEnabled: cfg.Pacing.Delay,
		NoiseEnabled:  cfg.Pacing.Noise,
		MaxDelay:      cfg.Pacing.MaxDelay(),
	})
}
