// Package api handles incoming HTTP requests for flashcard generation. It
// decodes and validates requests, selects the configured provider, and streams
// the framed NDJSON output back to the client. Errors are translated to HTTP
// status codes and safe messages in errors.go; detailed causes only reach the
// logs, and only after redaction.
package api
