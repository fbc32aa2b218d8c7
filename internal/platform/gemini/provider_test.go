package gemini

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/scry-relay/internal/config"
	"github.com/phrazzld/scry-relay/internal/domain"
	"github.com/phrazzld/scry-relay/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeStreamer replays canned responses and records what it was asked for.
type fakeStreamer struct {
	responses []*genai.GenerateContentResponse
	err       error // yielded after responses

	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeStreamer) GenerateContentStream(
	_ context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config

	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, r := range f.responses {
			if !yield(r, nil) {
				return
			}
		}
		if f.err != nil {
			yield(nil, f.err)
		}
	}
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: genai.RoleModel, Parts: parts}},
		},
	}
}

func newTestProvider(t *testing.T, apiKey string, fake *fakeStreamer) *Provider {
	t.Helper()

	p, err := NewProvider(slog.New(slog.DiscardHandler), config.LLMConfig{
		Temperature:     0.3,
		MaxOutputTokens: 2048,
		Gemini: config.GeminiConfig{
			APIKey: apiKey,
			Model:  "gemini-2.0-flash",
		},
	})
	require.NoError(t, err)

	p.newStreamer = func(context.Context, config.GeminiConfig) (contentStreamer, error) {
		return fake, nil
	}
	return p
}

func collect(s *generation.Stream) ([]string, error) {
	var out []string
	for fragment, err := range s.Fragments {
		if err != nil {
			return out, err
		}
		out = append(out, fragment)
	}
	return out, nil
}

func TestOpenStream_StreamsTextAndUsage(t *testing.T) {
	t.Parallel()

	final := textResponse(&genai.Part{Text: `"back":"A1","code":""}` + "\n"})
	final.UsageMetadata = &genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount:     210,
		CandidatesTokenCount: 90,
		ThoughtsTokenCount:   10,
	}
	fake := &fakeStreamer{
		responses: []*genai.GenerateContentResponse{
			textResponse(&genai.Part{Text: "thinking...", Thought: true}, &genai.Part{Text: `{"front":"Q1",`}),
			nil,
			{Candidates: nil},
			final,
		},
	}
	p := newTestProvider(t, "key", fake)

	stream, err := p.OpenStream(context.Background(), domain.GenerationRequest{
		Topic:   "Rust ownership",
		Context: []string{"borrowing"},
	})
	require.NoError(t, err)

	fragments, err := collect(stream)
	require.NoError(t, err)

	assert.Equal(t, []string{`{"front":"Q1",`, `"back":"A1","code":""}` + "\n"}, fragments)
	assert.Equal(t, domain.Usage{InputTokens: 210, OutputTokens: 100}, *stream.Usage)

	require.Equal(t, 1, fake.calls)
	assert.Equal(t, "gemini-2.0-flash", fake.model)
	require.Len(t, fake.contents, 1)
	assert.Equal(t, "Topic: Rust ownership", fake.contents[0].Parts[0].Text)
	require.NotNil(t, fake.config.SystemInstruction)
	assert.Contains(t, fake.config.SystemInstruction.Parts[0].Text, "Do not repeat these concepts: borrowing")
	require.NotNil(t, fake.config.Temperature)
	assert.InDelta(t, 0.3, *fake.config.Temperature, 1e-6)
	assert.Equal(t, int32(2048), fake.config.MaxOutputTokens)
}

func TestOpenStream_UsageOverwrittenByLaterChunks(t *testing.T) {
	t.Parallel()

	first := textResponse(&genai.Part{Text: "a"})
	first.UsageMetadata = &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 50, CandidatesTokenCount: 1}
	second := textResponse(&genai.Part{Text: "b"})
	second.UsageMetadata = &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 50, CandidatesTokenCount: 7}

	p := newTestProvider(t, "key", &fakeStreamer{responses: []*genai.GenerateContentResponse{first, second}})

	stream, err := p.OpenStream(context.Background(), domain.GenerationRequest{Topic: "x"})
	require.NoError(t, err)
	_, err = collect(stream)
	require.NoError(t, err)

	assert.Equal(t, domain.Usage{InputTokens: 50, OutputTokens: 7}, *stream.Usage)
}

func TestOpenStream_MissingAPIKey(t *testing.T) {
	t.Parallel()

	fake := &fakeStreamer{}
	p := newTestProvider(t, "", fake)

	stream, err := p.OpenStream(context.Background(), domain.GenerationRequest{Topic: "x"})

	require.Error(t, err)
	assert.Nil(t, stream)
	assert.True(t, errors.Is(err, generation.ErrConfiguration))
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
	assert.Equal(t, 0, fake.calls, "no upstream call without a key")
}

func TestOpenStream_EmptyTopic(t *testing.T) {
	t.Parallel()

	fake := &fakeStreamer{}
	p := newTestProvider(t, "key", fake)

	_, err := p.OpenStream(context.Background(), domain.GenerationRequest{})

	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, 0, fake.calls)
}

func TestOpenStream_ClientCreationFails(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, "key", nil)
	p.newStreamer = func(context.Context, config.GeminiConfig) (contentStreamer, error) {
		return nil, errors.New("bad credentials file")
	}

	_, err := p.OpenStream(context.Background(), domain.GenerationRequest{Topic: "x"})
	assert.True(t, errors.Is(err, generation.ErrConfiguration))
}

func TestOpenStream_UpstreamErrorMidStream(t *testing.T) {
	t.Parallel()

	cause := errors.New("rpc error: unavailable")
	fake := &fakeStreamer{
		responses: []*genai.GenerateContentResponse{textResponse(&genai.Part{Text: "{}\n"})},
		err:       cause,
	}
	p := newTestProvider(t, "key", fake)

	stream, err := p.OpenStream(context.Background(), domain.GenerationRequest{Topic: "x"})
	require.NoError(t, err)

	fragments, err := collect(stream)
	require.Error(t, err)
	assert.Equal(t, []string{"{}\n"}, fragments)
	assert.True(t, errors.Is(err, generation.ErrUpstream))
	assert.True(t, errors.Is(err, cause))
}

func TestOpenStream_StopsWhenConsumerStops(t *testing.T) {
	t.Parallel()

	fake := &fakeStreamer{
		responses: []*genai.GenerateContentResponse{
			textResponse(&genai.Part{Text: "one"}),
			textResponse(&genai.Part{Text: "two"}),
		},
	}
	p := newTestProvider(t, "key", fake)

	stream, err := p.OpenStream(context.Background(), domain.GenerationRequest{Topic: "x"})
	require.NoError(t, err)

	var got []string
	for fragment, err := range stream.Fragments {
		require.NoError(t, err)
		got = append(got, fragment)
		break
	}
	assert.Equal(t, []string{"one"}, got)
}

func TestNewProvider_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewProvider(nil, config.LLMConfig{Gemini: config.GeminiConfig{Model: "m"}})
	assert.Error(t, err)

	_, err = NewProvider(slog.Default(), config.LLMConfig{})
	assert.True(t, errors.Is(err, generation.ErrConfiguration))

	p, err := NewProvider(slog.Default(), config.LLMConfig{Gemini: config.GeminiConfig{Model: "m"}})
	require.NoError(t, err)
	assert.Equal(t, Name, p.Name())
}

func TestOpenStream_DefersUpstreamCallUntilRange(t *testing.T) {
	t.Parallel()

	fake := &fakeStreamer{responses: []*genai.GenerateContentResponse{textResponse(&genai.Part{Text: "x"})}}
	p := newTestProvider(t, "key", fake)

	stream, err := p.OpenStream(context.Background(), domain.GenerationRequest{Topic: "x"})
	require.NoError(t, err)
	assert.Equal(t, 0, fake.calls, "OpenStream must not call upstream")

	_, err = collect(stream)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestOpenStream_HTTPUpstream(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	var path atomic.Value
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		path.Store(r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(`data: {"candidates":[{"content":{"role":"model","parts":[{"text":"{\"front\":\"Q\",\"back\":\"A\",\"code\":\"\"}\n"}]}}],` +
			`"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":8}}` + "\n\n"))
	}))
	t.Cleanup(upstream.Close)

	p, err := NewProvider(slog.New(slog.DiscardHandler), config.LLMConfig{
		Temperature: 0.7,
		Gemini: config.GeminiConfig{
			APIKey:  "test-key",
			Model:   "gemini-2.0-flash",
			BaseURL: upstream.URL,
		},
	})
	require.NoError(t, err)

	stream, err := p.OpenStream(context.Background(), domain.GenerationRequest{Topic: "Go channels"})
	require.NoError(t, err)
	assert.Equal(t, int32(0), requests.Load(), "no request before the stream is ranged over")

	fragments, err := collect(stream)
	require.NoError(t, err)

	assert.Equal(t, int32(1), requests.Load())
	assert.Contains(t, path.Load(), "gemini-2.0-flash:streamGenerateContent")
	assert.Equal(t, []string{`{"front":"Q","back":"A","code":""}` + "\n"}, fragments)
	assert.Equal(t, domain.Usage{InputTokens: 12, OutputTokens: 8}, *stream.Usage)
}
