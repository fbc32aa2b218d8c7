package testutils

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/scry-relay/internal/api/shared"
	"github.com/phrazzld/scry-relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CreateTestServer creates a httptest server with the given handler.
// Automatically registers cleanup via t.Cleanup() so callers don't need to manually close the server.
func CreateTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
	})
	return server
}

// AssertErrorResponse checks that a recorded response is a JSON error with the
// expected status code and a message containing expectedErrorMsgPart.
func AssertErrorResponse(
	t *testing.T,
	rec *httptest.ResponseRecorder,
	expectedStatus int,
	expectedErrorMsgPart string,
) {
	t.Helper()

	assert.Equal(t, expectedStatus, rec.Code,
		"Expected status code %d but got %d", expectedStatus, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var errResp shared.ErrorResponse
	err := json.Unmarshal(rec.Body.Bytes(), &errResp)
	require.NoError(t, err, "Failed to unmarshal error response: %s", rec.Body.String())

	assert.Contains(t, errResp.Error, expectedErrorMsgPart,
		"Expected error message to contain %q but got %q", expectedErrorMsgPart, errResp.Error)
}

// ReadFlashcards decodes an NDJSON body into flashcards, failing the test on
// any line that is not a flashcard object.
func ReadFlashcards(t *testing.T, body io.Reader) []domain.Flashcard {
	t.Helper()

	var cards []domain.Flashcard
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var card domain.Flashcard
		require.NoError(t, json.Unmarshal([]byte(line), &card), "line is not a flashcard: %s", line)
		cards = append(cards, card)
	}
	require.NoError(t, scanner.Err())
	return cards
}
