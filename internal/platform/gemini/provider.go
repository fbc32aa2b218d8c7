package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/phrazzld/scry-relay/internal/config"
	"github.com/phrazzld/scry-relay/internal/domain"
	"github.com/phrazzld/scry-relay/internal/generation"
	"google.golang.org/genai"
)

// Name is the configuration name of this provider.
const Name = "gemini"

// contentStreamer is the part of the genai client this package uses.
// *genai.Models satisfies it.
type contentStreamer interface {
	GenerateContentStream(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) iter.Seq2[*genai.GenerateContentResponse, error]
}

// streamerFactory builds a contentStreamer for one request.
type streamerFactory func(ctx context.Context, cfg config.GeminiConfig) (contentStreamer, error)

// Provider implements generation.Provider using Google's Gemini API.
type Provider struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains Gemini-specific configuration
	config config.GeminiConfig

	temperature     float64
	maxOutputTokens int

	newStreamer streamerFactory
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a Gemini provider. The API key is not required here;
// OpenStream reports a missing key as a configuration error so that a server
// configured for another provider can still start.
func NewProvider(logger *slog.Logger, cfg config.LLMConfig) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Gemini.Model == "" {
		return nil, fmt.Errorf("%w: gemini model name cannot be empty", generation.ErrConfiguration)
	}

	return &Provider{
		logger:          logger,
		config:          cfg.Gemini,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		newStreamer:     newGenaiStreamer,
	}, nil
}

// newGenaiStreamer creates a genai client for the Gemini API backend.
func newGenaiStreamer(ctx context.Context, cfg config.GeminiConfig) (contentStreamer, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return Name
}

// OpenStream implements generation.Provider.
func (p *Provider) OpenStream(ctx context.Context, req domain.GenerationRequest) (*generation.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.config.APIKey) == "" {
		return nil, fmt.Errorf("%w: %w", generation.ErrConfiguration, ErrMissingAPIKey)
	}

	streamer, err := p.newStreamer(ctx, p.config)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrConfiguration, err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(generation.UserPrompt(req), genai.RoleUser),
	}

	p.logger.DebugContext(ctx, "Opening Gemini stream",
		"model", p.config.Model,
		"topic_length", len(req.Topic),
		"context_items", len(req.Context))

	usage := &domain.Usage{}
	open := func() iter.Seq2[*genai.GenerateContentResponse, error] {
		return streamer.GenerateContentStream(ctx, p.config.Model, contents, p.generateConfig(req))
	}

	return &generation.Stream{
		Fragments: fragments(open, usage),
		Usage:     usage,
	}, nil
}

func (p *Provider) generateConfig(req domain.GenerationRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(generation.SystemInstruction(req), genai.RoleUser),
		Temperature:       genai.Ptr(float32(p.temperature)),
	}
	if p.maxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(p.maxOutputTokens)
	}
	return cfg
}

// fragments adapts a genai response stream to text fragments, recording
// usage metadata into usage whenever a chunk carries it. genai sends the
// request as soon as GenerateContentStream is called, so open is deferred
// until the first range.
func fragments(
	open func() iter.Seq2[*genai.GenerateContentResponse, error],
	usage *domain.Usage,
) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for resp, err := range open() {
			if err != nil {
				yield("", generation.UpstreamError(Name, err))
				return
			}
			if resp == nil {
				continue
			}

			recordUsage(resp.UsageMetadata, usage)

			if text := responseText(resp); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}

// recordUsage overwrites usage with the cumulative counts in meta.
func recordUsage(meta *genai.GenerateContentResponseUsageMetadata, usage *domain.Usage) {
	if meta == nil {
		return
	}
	usage.InputTokens = int64(meta.PromptTokenCount)
	usage.OutputTokens = int64(meta.CandidatesTokenCount) + int64(meta.ThoughtsTokenCount)
}

// responseText concatenates the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
