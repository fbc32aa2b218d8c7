package domain

import (
	"fmt"
	"strings"
)

// GenerationRequest asks for flashcards about Topic. Context lists concepts
// already covered, which the model is told not to repeat.
type GenerationRequest struct {
	Topic   string
	Context []string
}

// NewGenerationRequest builds a request, trimming the topic and dropping
// blank context entries. It returns ErrValidation when the topic is empty.
func NewGenerationRequest(topic string, context []string) (GenerationRequest, error) {
	req := GenerationRequest{Topic: strings.TrimSpace(topic)}
	for _, c := range context {
		if c = strings.TrimSpace(c); c != "" {
			req.Context = append(req.Context, c)
		}
	}
	if err := req.Validate(); err != nil {
		return GenerationRequest{}, err
	}
	return req, nil
}

// Validate checks that the request has a non-empty topic.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyTopic)
	}
	return nil
}
