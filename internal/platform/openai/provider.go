package openai

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/phrazzld/scry-relay/internal/config"
	"github.com/phrazzld/scry-relay/internal/domain"
	"github.com/phrazzld/scry-relay/internal/generation"
)

// Name is the configuration name of this provider.
const Name = "openai"

// Provider implements generation.Provider using OpenAI chat completions.
type Provider struct {
	logger *slog.Logger
	config config.OpenAIConfig

	temperature     float64
	maxOutputTokens int
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates an OpenAI provider. As with the Gemini provider, a
// missing API key is reported per request rather than here.
func NewProvider(logger *slog.Logger, cfg config.LLMConfig) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.OpenAI.Model == "" {
		return nil, fmt.Errorf("%w: openai model name cannot be empty", generation.ErrConfiguration)
	}

	return &Provider{
		logger:          logger,
		config:          cfg.OpenAI,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return Name
}

// OpenStream implements generation.Provider. The HTTP request is sent when
// the returned fragments are first ranged over.
func (p *Provider) OpenStream(ctx context.Context, req domain.GenerationRequest) (*generation.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.config.APIKey) == "" {
		return nil, fmt.Errorf("%w: %w", generation.ErrConfiguration, ErrMissingAPIKey)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(p.config.APIKey),
		option.WithMaxRetries(0),
	}
	if p.config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.config.BaseURL))
	}
	client := openai.NewClient(opts...)

	p.logger.DebugContext(ctx, "Opening OpenAI stream",
		"model", p.config.Model,
		"topic_length", len(req.Topic),
		"context_items", len(req.Context))

	usage := &domain.Usage{}
	return &generation.Stream{
		Fragments: p.fragments(ctx, client, p.params(req), usage),
		Usage:     usage,
	}, nil
}

func (p *Provider) params(req domain.GenerationRequest) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(generation.SystemInstruction(req)),
			openai.UserMessage(generation.UserPrompt(req)),
		},
		StreamOptions: openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		},
		Temperature: openai.Float(p.temperature),
	}
	if p.maxOutputTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(p.maxOutputTokens))
	}
	return params
}

func (p *Provider) fragments(
	ctx context.Context,
	client openai.Client,
	params openai.ChatCompletionNewParams,
	usage *domain.Usage,
) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()

			// Usage arrives on the final chunk, which has no choices.
			if chunk.Usage.JSON.PromptTokens.Valid() {
				usage.InputTokens = chunk.Usage.PromptTokens
				usage.OutputTokens = chunk.Usage.CompletionTokens
			}

			if len(chunk.Choices) == 0 {
				continue
			}
			if text := chunk.Choices[0].Delta.Content; text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			yield("", generation.UpstreamError(Name, err))
		}
	}
}
