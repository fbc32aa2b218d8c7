// Package gemini provides an implementation of the generation.Provider
// interface that streams flashcards from Google's Gemini API.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's generation contract to Google's external
// Gemini AI service through the google.golang.org/genai client library.
//
// Key components:
//
// 1. Provider:
//   - Implements the generation.Provider interface
//   - Checks the API key before any request is sent
//   - Builds the system instruction and user turn from the shared prompt
//
// 2. Stream translation:
//   - Adapts genai's streaming iterator into a sequence of text fragments
//   - Skips thought parts so only answer text reaches the framing parser
//   - Records UsageMetadata whenever a chunk carries it
//   - Wraps iterator errors in generation.ErrUpstream
package gemini
