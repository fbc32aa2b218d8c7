package domain

// Flashcard is a single generated card. Code holds an optional snippet and
// may be empty.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	Code  string `json:"code"`
}
