package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/docgate/internal/issue"
	"git.home.luguber.info/inful/docgate/internal/mdlinks"
	"git.home.luguber.info/inful/docgate/internal/section"
)

// runLint scans a file's conditional sections and reports how each declared
// link classifies, plus any absolute links that appear inside a section body
// without being declared in its opener. Purely local; no remote checks.
func runLint(file string) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	spans, err := section.Scan(string(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	sections := 0
	undeclared := 0
	for _, sp := range spans {
		cond, ok := sp.(section.Conditional)
		if !ok {
			continue
		}
		sections++

		declared := make(map[string]bool, len(cond.Links))
		for _, u := range cond.Links {
			declared[u.String()] = true

			id := issue.FromURL(u)
			if t := id.Tracker; t != nil {
				slog.Info("section link",
					"section", sections,
					"url", u.String(),
					"kind", t.Kind.String(),
					"owner", t.Owner,
					"repo", t.Repo,
					"number", t.Number)
			} else {
				slog.Info("section link", "section", sections, "url", u.String(), "kind", "link")
			}
		}

		for _, dest := range mdlinks.Extract([]byte(cond.Body)) {
			if !strings.HasPrefix(dest, "http://") && !strings.HasPrefix(dest, "https://") {
				continue
			}
			if declared[dest] {
				continue
			}
			undeclared++
			slog.Warn("body link not declared in section opener", "section", sections, "url", dest)
		}
	}

	slog.Info("lint completed", "file", file, "sections", sections, "undeclared_links", undeclared)
	return nil
}
