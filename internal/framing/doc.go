// Package framing turns an arbitrary stream of model output fragments into
// newline-delimited JSON records.
//
// Fragment boundaries carry no meaning: a fragment may hold several records,
// part of one, or nothing at all. The Parser buffers text, cuts it at newline
// characters, and writes every candidate line that is a JSON object to its
// sink as soon as the line is complete. Markdown code fences that models like
// to add around JSON are stripped first. Lines that are not JSON objects are
// dropped with a warning and never stop the stream.
package framing
