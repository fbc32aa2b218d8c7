package framing

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	openFence  = "```json"
	closeFence = "```"

	// maxSnippetRunes bounds the offending text included in warnings.
	maxSnippetRunes = 50
)

// flusher is satisfied by sinks that buffer, such as an HTTP response.
type flusher interface {
	Flush() error
}

// legacyFlusher matches http.Flusher and similar.
type legacyFlusher interface {
	Flush()
}

// Parser frames fragments into JSON lines and writes each valid line, with a
// trailing newline, to its sink. It implements io.StringWriter and io.Writer so
// that fragments can be copied into it; Close flushes the trailing remainder.
//
// A line consisting only of a fence marker (```json or ```) carries no
// content and is dropped without a warning. The fence tag is matched exactly,
// so ```JSON is not a fence. Lines that are not valid UTF-8 are discarded
// with a warning even when they are otherwise well-formed JSON.
//
// A Parser belongs to a single stream and is not safe for concurrent use.
type Parser struct {
	sink   io.Writer
	logger *slog.Logger

	buf       string
	cards     int
	discarded int
	closed    bool
}

// NewParser creates a Parser writing to sink. A nil logger discards warnings.
func NewParser(sink io.Writer, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{sink: sink, logger: logger}
}

// WriteString appends a fragment and emits every line it completes.
// The only error it returns is a failure to write to the sink.
func (p *Parser) WriteString(fragment string) (int, error) {
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	p.buf += fragment

	for {
		line, rest, found := strings.Cut(p.buf, "\n")
		if !found {
			break
		}
		p.buf = rest
		if err := p.processLine(line); err != nil {
			return len(fragment), err
		}
	}
	return len(fragment), nil
}

// Write is WriteString for byte slices.
func (p *Parser) Write(b []byte) (int, error) {
	return p.WriteString(string(b))
}

// Close treats whatever is left in the buffer as a final candidate line.
// Further writes fail. Close is idempotent.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	rest := p.buf
	p.buf = ""
	return p.processLine(rest)
}

// Cards returns the number of lines emitted so far.
func (p *Parser) Cards() int {
	return p.cards
}

// Discarded returns the number of non-empty lines dropped as invalid.
func (p *Parser) Discarded() int {
	return p.discarded
}

func (p *Parser) processLine(line string) error {
	cleaned, ok := cleanLine(line)
	if cleaned == "" {
		return nil
	}
	if !ok {
		p.discarded++
		p.logger.Warn("discarding line that is not a JSON object",
			"snippet", snippet(cleaned),
			"length", len(cleaned))
		return nil
	}

	if _, err := io.WriteString(p.sink, cleaned+"\n"); err != nil {
		return err
	}
	p.cards++

	switch f := p.sink.(type) {
	case flusher:
		return f.Flush()
	case legacyFlusher:
		f.Flush()
	}
	return nil
}

// cleanLine trims line and strips an optional leading ```json fence and an
// optional trailing ``` fence. It reports whether the result is a UTF-8 JSON
// object.
// An empty result means the line held only whitespace or fence markers.
func cleanLine(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return "", false
	}

	s = strings.TrimPrefix(s, openFence)
	s = strings.TrimSuffix(s, closeFence)
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if !strings.HasPrefix(s, "{") || !utf8.ValidString(s) {
		return s, false
	}
	return s, json.Valid([]byte(s))
}

func snippet(s string) string {
	if utf8.RuneCountInString(s) <= maxSnippetRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxSnippetRunes])
}
