// Package preprocess implements the host build tool's preprocessor
// protocol: a `[context, book]` JSON pair on stdin, the transformed book on
// stdout, and a `supports <renderer>` capability query.
package preprocess

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Version is the protocol version this preprocessor was built against. A
// differing host major.minor produces a warning, not a failure.
const Version = "0.4.40"

// Context is the invocation context the host sends alongside the book.
type Context struct {
	Root          string                     `json:"root"`
	Config        map[string]json.RawMessage `json:"config"`
	Renderer      string                     `json:"renderer"`
	MdbookVersion string                     `json:"mdbook_version"`
}

// PreprocessorTable returns the configuration table for the named
// preprocessor from the book configuration, or nil when absent.
func (c *Context) PreprocessorTable(name string) map[string]any {
	raw, ok := c.Config["preprocessor"]
	if !ok {
		return nil
	}
	var tables map[string]map[string]any
	if err := json.Unmarshal(raw, &tables); err != nil {
		return nil
	}
	return tables[name]
}

// ParseInput decodes the `[context, book]` array from r.
func ParseInput(r io.Reader) (*Context, *Book, error) {
	var pair []json.RawMessage
	if err := json.NewDecoder(r).Decode(&pair); err != nil {
		return nil, nil, fmt.Errorf("decode preprocessor input: %w", err)
	}
	if len(pair) != 2 {
		return nil, nil, fmt.Errorf("preprocessor input must be a [context, book] pair, got %d elements", len(pair))
	}

	var ctx Context
	if err := json.Unmarshal(pair[0], &ctx); err != nil {
		return nil, nil, fmt.Errorf("decode preprocessor context: %w", err)
	}
	var book Book
	if err := json.Unmarshal(pair[1], &book); err != nil {
		return nil, nil, fmt.Errorf("decode book: %w", err)
	}
	return &ctx, &book, nil
}

// WriteBook serializes the transformed book back to the host.
func WriteBook(w io.Writer, b *Book) error {
	if err := json.NewEncoder(w).Encode(b); err != nil {
		return fmt.Errorf("encode book: %w", err)
	}
	return nil
}

// SupportsRenderer reports whether the transform's output markup is
// meaningful for the given renderer. Only HTML understands the wrapper div.
func SupportsRenderer(renderer string) bool {
	return renderer == "html"
}

// CheckVersion warns when the host's protocol version differs from the one
// built against. Patch-level differences are fine.
func CheckVersion(logger *slog.Logger, hostVersion string) {
	if hostVersion == "" || majorMinor(hostVersion) == majorMinor(Version) {
		return
	}
	logger.Warn("host version differs from the version this preprocessor was built against",
		"built_against", Version,
		"host", hostVersion)
}

func majorMinor(v string) string {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return v
	}
	return parts[0] + "." + parts[1]
}
