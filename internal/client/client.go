// Package client is a Go client for the flashcard relay's HTTP API.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/phrazzld/scry-relay/internal/api/shared"
	"github.com/phrazzld/scry-relay/internal/domain"
)

// maxLineBytes bounds a single NDJSON line.
const maxLineBytes = 1 << 20

// ErrIncompleteStream is returned when the server aborts a response after
// some cards were delivered.
var ErrIncompleteStream = errors.New("stream ended unexpectedly")

// Client talks to a relay server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the server at baseURL. A nil httpClient means
// http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Line is one card as received: the raw NDJSON line and its decoded form.
type Line struct {
	Raw  []byte
	Card domain.Flashcard
}

// StatusError is a non-200 answer from the server.
type StatusError struct {
	StatusCode int
	Message    string
	TraceID    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	if e.TraceID != "" {
		msg += " (trace_id " + e.TraceID + ")"
	}
	return msg
}

// Generate requests cards about topic and calls fn for each one as it
// arrives. It returns the number of cards delivered. Lines that are not
// flashcard objects are skipped.
func (c *Client) Generate(ctx context.Context, topic string, studied []string, fn func(Line) error) (int, error) {
	body, err := json.Marshal(map[string]any{"topic": topic, "context": studied})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, statusError(resp)
	}

	count := 0
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var card domain.Flashcard
		if err := json.Unmarshal(raw, &card); err != nil {
			continue
		}
		count++
		if err := fn(Line{Raw: append([]byte(nil), raw...), Card: card}); err != nil {
			return count, err
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("%w after %d cards: %w", ErrIncompleteStream, count, err)
	}
	return count, nil
}

func statusError(resp *http.Response) error {
	serr := &StatusError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body shared.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		serr.Message = body.Error
		serr.TraceID = body.TraceID
	}
	return serr
}
