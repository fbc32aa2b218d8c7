// Package domain contains the core entities of the relay: the flashcard records
// streamed to callers, the generation request that produces them, and the
// token usage and cost values derived from a provider call. Nothing in this
// package outlives a single request.
package domain
