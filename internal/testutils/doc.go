// Package testutils provides testing utilities for the relay.
//
// It contains an in-memory slog.Handler for asserting on log output, and
// helpers for standing up test servers and reading their error and NDJSON
// responses.
//
//	handler := testutils.NewTestSlogHandler()
//	logger := slog.New(handler)
//	// ... exercise code that logs ...
//	warnings := handler.EntriesAtLevel(slog.LevelWarn)
package testutils
