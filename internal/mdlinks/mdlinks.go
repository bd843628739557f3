// Package mdlinks extracts link destinations from Markdown text.
//
// This is an analysis helper for lint reporting; it never rewrites Markdown.
package mdlinks

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Extract returns the destinations of link-like constructs (inline links,
// autolinks, images, reference definitions) in document order, with
// reference definitions appended last.
func Extract(body []byte) []string {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var dests []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			dests = append(dests, string(node.URL(body)))
		case *gmast.Image:
			dests = append(dests, string(node.Destination))
		case *gmast.Link:
			dests = append(dests, string(node.Destination))
		}
		return gmast.WalkContinue, nil
	})

	for _, ref := range ctx.References() {
		dests = append(dests, string(ref.Destination()))
	}
	return dests
}
