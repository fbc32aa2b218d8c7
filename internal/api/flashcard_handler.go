package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-relay/internal/api/shared"
	"github.com/phrazzld/scry-relay/internal/domain"
	"github.com/phrazzld/scry-relay/internal/framing"
	"github.com/phrazzld/scry-relay/internal/generation"
	"github.com/phrazzld/scry-relay/internal/redact"
)

// FlashcardHandler streams generated flashcards as NDJSON.
type FlashcardHandler struct {
	registry *generation.Registry
	logger   *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler
func NewFlashcardHandler(registry *generation.Registry, logger *slog.Logger) *FlashcardHandler {
	if registry == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("registry cannot be nil for FlashcardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FlashcardHandler")
	}

	return &FlashcardHandler{
		registry: registry,
		logger:   logger.With(slog.String("component", "flashcard_handler")),
	}
}

// Generate handles POST /api/generate requests.
//
// Cards are written and flushed one line at a time as the provider produces
// them. Errors raised before the first card become a JSON error response.
// Once output has started the status line is already sent, so an upstream
// failure aborts the connection and the client keeps whatever it received.
func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(
		slog.String("trace_id", shared.GetTraceID(ctx)),
		slog.String("generation_id", uuid.NewString()),
	)

	var body GenerateRequest
	if err := shared.DecodeJSON(w, r, &body); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&body); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	req, err := domain.NewGenerationRequest(body.Topic, body.Context)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	provider, rates, err := h.registry.Select()
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	log = log.With(slog.String("provider", provider.Name()))

	stream, err := provider.OpenStream(ctx, req)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.InfoContext(ctx, "generation started",
		slog.Int("topic_length", len(req.Topic)),
		slog.Int("context_items", len(req.Context)))

	started := time.Now()
	sink := newStreamWriter(w)
	result, err := framing.Run(stream.Fragments, sink, log)
	if err != nil {
		h.failStream(w, r, log, sink, result, err)
		return
	}

	// A stream that produced no cards still answers 200 with an empty body.
	if !sink.Started() {
		sink.commit()
	}

	h.logCompletion(ctx, log, result, *stream.Usage, rates, time.Since(started))
}

// failStream reports a stream that ended in error.
func (h *FlashcardHandler) failStream(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	sink *streamWriter,
	result framing.Result,
	err error,
) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		log.InfoContext(r.Context(), "client disconnected during generation",
			slog.Int("cards", result.Cards))
		return
	}

	if !sink.Started() {
		HandleAPIError(w, r, err)
		return
	}

	log.ErrorContext(r.Context(), "stream failed after output was written",
		slog.String("error", redact.Error(err)),
		slog.Int("cards", result.Cards),
		slog.Int("discarded", result.Discarded))

	// The status line is gone; aborting is the only way left to tell the
	// client the body is incomplete.
	panic(http.ErrAbortHandler)
}

// logCompletion records the outcome and estimated cost of a finished stream.
func (h *FlashcardHandler) logCompletion(
	ctx context.Context,
	log *slog.Logger,
	result framing.Result,
	usage domain.Usage,
	rates domain.Rates,
	elapsed time.Duration,
) {
	attrs := []any{
		slog.Int("cards", result.Cards),
		slog.Int("discarded", result.Discarded),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
	}

	if !usage.Observed() {
		log.WarnContext(ctx, "provider reported no token usage; cost estimate unavailable", attrs...)
		return
	}

	cost := generation.EstimateCost(usage, rates)
	attrs = append(attrs,
		slog.Int64("input_tokens", usage.InputTokens),
		slog.Int64("output_tokens", usage.OutputTokens),
		slog.Float64("input_cost_usd", cost.InputCost),
		slog.Float64("output_cost_usd", cost.OutputCost),
		slog.Float64("total_cost_usd", cost.TotalCost))
	log.InfoContext(ctx, "generation complete", attrs...)
}
