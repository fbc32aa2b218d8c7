// Package main implements the entry point for the Scry flashcard relay,
// which streams LLM-generated flashcards to clients as NDJSON.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/phrazzld/scry-relay/internal/config"
	"github.com/phrazzld/scry-relay/internal/platform/logger"
	"github.com/phrazzld/scry-relay/internal/redact"
)

// main is the process-level fault boundary: any error or panic that escapes
// startup or serving is logged and the process exits with status 1.
// Panics inside request handlers never reach here; the Recoverer middleware
// logs them and the server keeps running.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited with error", "error", redact.Error(err))
		stop()
		os.Exit(1)
	}
}

// run initializes the application and serves until ctx is canceled.
func run(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic outside request handling",
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	cfg, log, err := initializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	app, err := newApplication(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return app.Run(ctx)
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"provider", cfg.LLM.Provider)
	log.Debug("LLM configuration",
		"gemini_model", cfg.LLM.Gemini.Model,
		"gemini_key_present", cfg.LLM.Gemini.APIKey != "",
		"openai_model", cfg.LLM.OpenAI.Model,
		"openai_key_present", cfg.LLM.OpenAI.APIKey != "",
		"static_dir", cfg.Server.StaticDir)

	return cfg, log, nil
}
