package mocks

import (
	"context"
	"iter"
	"sync"

	"github.com/phrazzld/scry-relay/internal/domain"
	"github.com/phrazzld/scry-relay/internal/generation"
)

// MockProvider implements generation.Provider for testing
type MockProvider struct {
	// ProviderName is returned by Name. Defaults to "mock".
	ProviderName string

	// OpenStreamFn allows test cases to mock the OpenStream behavior
	OpenStreamFn func(ctx context.Context, req domain.GenerationRequest) (*generation.Stream, error)

	// Default response values
	Fragments []string
	StreamErr error // yielded after all Fragments
	Usage     domain.Usage
	Err       error // returned by OpenStream

	// Call tracking for verification
	OpenStreamCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times OpenStream was called
		Count int

		// Requests contains all requests passed to OpenStream calls
		Requests []domain.GenerationRequest
	}
}

// Name implements the generation.Provider interface
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// OpenStream implements the generation.Provider interface
func (m *MockProvider) OpenStream(
	ctx context.Context,
	req domain.GenerationRequest,
) (*generation.Stream, error) {
	m.OpenStreamCalls.mu.Lock()
	m.OpenStreamCalls.Count++
	m.OpenStreamCalls.Requests = append(m.OpenStreamCalls.Requests, req)
	m.OpenStreamCalls.mu.Unlock()

	if m.OpenStreamFn != nil {
		return m.OpenStreamFn(ctx, req)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	usage := &domain.Usage{}
	return &generation.Stream{
		Fragments: m.sequence(usage),
		Usage:     usage,
	}, nil
}

// CallCount returns the number of OpenStream calls so far
func (m *MockProvider) CallCount() int {
	m.OpenStreamCalls.mu.Lock()
	defer m.OpenStreamCalls.mu.Unlock()
	return m.OpenStreamCalls.Count
}

// sequence yields the configured fragments, records usage once they are
// exhausted and then yields StreamErr if one is set.
func (m *MockProvider) sequence(usage *domain.Usage) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, f := range m.Fragments {
			if !yield(f, nil) {
				return
			}
		}
		*usage = m.Usage
		if m.StreamErr != nil {
			yield("", m.StreamErr)
		}
	}
}

// NewMockProviderWithFragments creates a MockProvider that streams the given fragments
func NewMockProviderWithFragments(name string, fragments ...string) *MockProvider {
	return &MockProvider{
		ProviderName: name,
		Fragments:    fragments,
	}
}

// NewMockProviderWithError creates a MockProvider whose OpenStream fails with err
func NewMockProviderWithError(name string, err error) *MockProvider {
	return &MockProvider{
		ProviderName: name,
		Err:          err,
	}
}

// Fragments wraps a fixed list of strings as a fragment sequence.
func Fragments(parts ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, p := range parts {
			if !yield(p, nil) {
				return
			}
		}
	}
}
