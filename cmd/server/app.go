package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-relay/internal/config"
	"github.com/phrazzld/scry-relay/internal/domain"
	"github.com/phrazzld/scry-relay/internal/generation"
	"github.com/phrazzld/scry-relay/internal/platform/gemini"
	"github.com/phrazzld/scry-relay/internal/platform/openai"
)

// application holds the shared application dependencies.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	registry *generation.Registry
}

// newApplication registers every provider with its configured rates. Missing
// API keys only produce a warning here; requests report them as
// configuration errors.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	registry := generation.NewRegistry(cfg.LLM.Provider)

	geminiProvider, err := gemini.NewProvider(logger.With("component", "gemini_provider"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini provider: %w", err)
	}
	registry.Register(geminiProvider, domain.Rates{
		InputPerMillion:  cfg.LLM.Gemini.InputCostPerMillion,
		OutputPerMillion: cfg.LLM.Gemini.OutputCostPerMillion,
	})

	openaiProvider, err := openai.NewProvider(logger.With("component", "openai_provider"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI provider: %w", err)
	}
	registry.Register(openaiProvider, domain.Rates{
		InputPerMillion:  cfg.LLM.OpenAI.InputCostPerMillion,
		OutputPerMillion: cfg.LLM.OpenAI.OutputCostPerMillion,
	})

	if _, _, err := registry.Select(); err != nil {
		return nil, err
	}
	if !activeKeyPresent(cfg.LLM) {
		logger.Warn("API key for the active provider is not set; generation requests will fail",
			"provider", cfg.LLM.Provider)
	}

	logger.Info("Application initialized successfully",
		"active_provider", registry.Active(),
		"providers", registry.Names())

	return &application{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}, nil
}

func activeKeyPresent(cfg config.LLMConfig) bool {
	switch cfg.Provider {
	case gemini.Name:
		return cfg.Gemini.APIKey != ""
	case openai.Name:
		return cfg.OpenAI.APIKey != ""
	default:
		return false
	}
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
