// Package section splits raw chapter text into plain and conditional spans.
//
// The grammar is line-based: a line of `!!!` immediately followed by a
// comma-separated list of absolute URLs opens a conditional section, and the
// next line consisting of exactly `!!!` closes it. Everything else passes
// through untouched. Splitting is byte-exact; a scan followed by rejoining
// the spans (with delimiters re-added) reproduces the input.
package section

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Marker is the three-character section delimiter.
const Marker = "!!!"

var (
	// ErrUnterminatedSection reports a section opener with no matching
	// closer line. The grammar gives no meaning to a dangling opener, so
	// the scan fails rather than guessing an implicit end of section.
	ErrUnterminatedSection = errors.New("section opener without matching closer")

	// ErrInvalidLink reports an opener list segment that is not an
	// absolute URL. The author's intent is unrecoverable, so the scan
	// fails rather than dropping the section.
	ErrInvalidLink = errors.New("section link is not an absolute URL")
)

// Span is one contiguous piece of a scanned chapter: either Plain or
// Conditional.
type Span interface {
	isSpan()
}

// Plain is passthrough text between (or outside) conditional sections.
type Plain struct {
	Text string
}

// Conditional is a delimited section with its declared links and the body
// between the delimiter lines, preserved byte-for-byte. The body includes
// the newline that terminates the opener line and the newline that precedes
// the closer marker.
type Conditional struct {
	Links []*url.URL
	Body  string
}

func (Plain) isSpan()       {}
func (Conditional) isSpan() {}

// Scan splits raw text into spans in document order. Gaps between sections
// become Plain spans; empty gaps are omitted. Input without any section is
// returned as a single Plain span. Scan is pure: it never performs I/O.
func Scan(raw string) ([]Span, error) {
	var spans []Span

	pos := 0
	lineNo := 1
	plainStart := 0
	for pos < len(raw) {
		contentEnd, next := lineBounds(raw, pos)
		content := raw[pos:contentEnd]

		if !strings.HasPrefix(content, Marker) || len(content) == len(Marker) {
			// Plain text, or a bare closer with no open section.
			pos = next
			lineNo++
			continue
		}

		links, err := parseLinkList(content[len(Marker):], lineNo)
		if err != nil {
			return nil, err
		}

		if plainStart < pos {
			spans = append(spans, Plain{Text: raw[plainStart:pos]})
		}

		openerLine := lineNo
		bodyStart := contentEnd
		pos = next
		lineNo++

		closed := false
		for pos < len(raw) {
			end, nx := lineBounds(raw, pos)
			if raw[pos:end] == Marker {
				spans = append(spans, Conditional{Links: links, Body: raw[bodyStart:pos]})
				plainStart = end
				pos = nx
				lineNo++
				closed = true
				break
			}
			pos = nx
			lineNo++
		}
		if !closed {
			return nil, fmt.Errorf("line %d: %w", openerLine, ErrUnterminatedSection)
		}
	}

	if plainStart < len(raw) {
		spans = append(spans, Plain{Text: raw[plainStart:]})
	}
	if len(spans) == 0 {
		spans = append(spans, Plain{Text: raw})
	}
	return spans, nil
}

// JoinLinks re-joins a span's links with commas, matching the opener's
// original list for use in the wrapper attribute.
func JoinLinks(links []*url.URL) string {
	parts := make([]string, len(links))
	for i, u := range links {
		parts[i] = u.String()
	}
	return strings.Join(parts, ",")
}

// lineBounds returns the end of the line content starting at start (the
// index of the terminating newline, or end of input) and the start of the
// following line.
func lineBounds(s string, start int) (contentEnd, next int) {
	if i := strings.IndexByte(s[start:], '\n'); i >= 0 {
		return start + i, start + i + 1
	}
	return len(s), len(s)
}

func parseLinkList(list string, lineNo int) ([]*url.URL, error) {
	parts := strings.Split(list, ",")
	links := make([]*url.URL, 0, len(parts))
	for _, part := range parts {
		u, err := url.Parse(part)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrInvalidLink, part)
		}
		links = append(links, u)
	}
	return links, nil
}
