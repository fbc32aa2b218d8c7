// Package openai provides an implementation of the generation.Provider
// interface backed by the OpenAI Chat Completions streaming API.
//
// Usage is requested with stream_options.include_usage, so the final chunk
// of every stream carries the token counts used for cost estimation. The
// SDK's built-in retries are disabled: a failed call is reported once and
// never replayed.
package openai
