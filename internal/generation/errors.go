package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrConfiguration is returned when the selected provider cannot be used,
	// such as a missing API key or an unknown provider name. It is always
	// raised before any upstream call is made.
	ErrConfiguration = errors.New("invalid generator configuration")

	// ErrUpstream is returned when the streaming call to the provider fails,
	// either when it is opened or part way through the stream.
	ErrUpstream = errors.New("upstream provider failure")
)

// UpstreamError wraps err from the named provider so that it matches
// ErrUpstream while keeping the original cause inspectable.
func UpstreamError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, provider, err)
}
