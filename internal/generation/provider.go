package generation

import (
	"context"
	"iter"

	"github.com/phrazzld/scry-relay/internal/domain"
)

// Provider defines the interface for streaming flashcard text from an LLM.
// This interface serves as a boundary between the application core and
// external AI/LLM services.
type Provider interface {
	// Name returns the configuration name of the provider, e.g. "gemini".
	Name() string

	// OpenStream prepares a streaming generation for req.
	//
	// It returns ErrValidation (from the domain package) for an empty topic and
	// ErrConfiguration when the provider's credential is missing. Both are
	// checked before any upstream call is made. The upstream call itself starts
	// when the returned Stream's Fragments are first ranged over.
	OpenStream(ctx context.Context, req domain.GenerationRequest) (*Stream, error)
}

// Stream is the result of Provider.OpenStream.
//
// Fragments is single-pass and cannot be restarted. Each fragment is raw model
// output whose boundaries carry no meaning. When the upstream call fails the
// sequence yields one final ("", err) pair with err wrapping ErrUpstream.
//
// Usage is updated while Fragments is consumed and holds the final metering
// once iteration finishes. It stays zero if the provider never reported any.
type Stream struct {
	Fragments iter.Seq2[string, error]
	Usage     *domain.Usage
}
