package api

import (
	"errors"
	"net/http"
)

// ndjsonContentType is sent with streamed flashcards. Browsers render
// text/plain progressively, which application/x-ndjson does not guarantee.
const ndjsonContentType = "text/plain; charset=utf-8"

// streamWriter defers committing the response until the first card is
// written, so that failures before any output can still become a JSON error
// with a proper status code.
type streamWriter struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
}

func newStreamWriter(w http.ResponseWriter) *streamWriter {
	return &streamWriter{w: w, rc: http.NewResponseController(w)}
}

// Write commits the 200 response on first use and writes p.
func (s *streamWriter) Write(p []byte) (int, error) {
	s.commit()
	return s.w.Write(p)
}

// Flush pushes buffered output to the client. Writers that cannot flush are
// tolerated; output then arrives when the handler returns.
func (s *streamWriter) Flush() error {
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// Started reports whether the response has been committed.
func (s *streamWriter) Started() bool {
	return s.started
}

func (s *streamWriter) commit() {
	if s.started {
		return
	}
	s.started = true

	h := s.w.Header()
	h.Set("Content-Type", ndjsonContentType)
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-cache")
	s.w.WriteHeader(http.StatusOK)
}
