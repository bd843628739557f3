package mdlinks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract_InlineAndAutoLinks(t *testing.T) {
	body := []byte("See [docs](https://example.com/docs) and <https://example.com/auto>.\n")

	dests := Extract(body)

	require.Contains(t, dests, "https://example.com/docs")
	require.Contains(t, dests, "https://example.com/auto")
}

func TestExtract_ReferenceDefinitions(t *testing.T) {
	body := []byte("See [the manual][ref].\n\n[ref]: https://example.com/ref\n")

	dests := Extract(body)

	require.Contains(t, dests, "https://example.com/ref")
}

func TestExtract_NoLinks_ReturnsEmpty(t *testing.T) {
	require.Empty(t, Extract([]byte("plain paragraph, nothing linked\n")))
}
