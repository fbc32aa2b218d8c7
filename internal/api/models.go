package api

// GenerateRequest defines the payload for the flashcard generation endpoint.
type GenerateRequest struct {
	// Topic is the subject to write flashcards about
	Topic string `json:"topic" validate:"required,max=2000"`

	// Context lists concepts the learner has already studied
	Context []string `json:"context,omitempty" validate:"max=100,dive,max=500"`
}

// ProvidersResponse reports the configured provider and every registered one.
type ProvidersResponse struct {
	Active    string   `json:"active"`
	Available []string `json:"available"`
}
