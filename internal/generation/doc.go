// Package generation defines the contract between the HTTP layer and the
// external AI/LLM services that write flashcards. A Provider opens a streaming
// content generation call and hands back a lazy sequence of text fragments
// plus a usage handle that fills in as metering arrives.
//
// The package also owns the pieces shared by every provider: the tutoring
// prompt, the error taxonomy, the Registry that picks the configured provider
// once per request, and the cost estimate computed after a stream completes.
// Concrete providers (Gemini, OpenAI) live under internal/platform.
package generation
