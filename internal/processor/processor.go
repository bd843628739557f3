// Package processor transforms one chapter: it scans for conditional
// sections, aggregates each section's link verdicts, and recomposes the
// final text with wrapper markup and the appropriate banner or warning.
package processor

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docgate/internal/issue"
	"git.home.luguber.info/inful/docgate/internal/section"
	"git.home.luguber.info/inful/docgate/internal/validator"
)

// Options controls how invalid sections are rendered.
type Options struct {
	// HideInvalid removes no-longer-valid sections entirely instead of
	// annotating them with InvalidMessage.
	HideInvalid bool

	// InvalidMessage is emitted inside the wrapper when a section is no
	// longer valid and HideInvalid is off.
	InvalidMessage string
}

// Processor applies the conditional-section transform to chapter text.
type Processor struct {
	validator validator.Validator
	opts      Options
}

func New(v validator.Validator, opts Options) *Processor {
	return &Processor{validator: v, opts: opts}
}

// ProcessChapter rewrites raw chapter text. Plain text passes through
// byte-for-byte; each conditional section is either dropped (no longer
// valid, HideInvalid on) or wrapped in a validated-content div carrying the
// original link list, a banner or warning, and the untouched body.
func (p *Processor) ProcessChapter(ctx context.Context, raw string) (string, error) {
	spans, err := section.Scan(raw)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, sp := range spans {
		switch s := sp.(type) {
		case section.Plain:
			out.WriteString(s.Text)
		case section.Conditional:
			ids := make([]issue.Identity, len(s.Links))
			for i, u := range s.Links {
				ids[i] = issue.FromURL(u)
			}

			verdict := p.aggregate(ctx, ids)
			if verdict == validator.NoLongerValid && p.opts.HideInvalid {
				continue
			}

			out.WriteString(`<div class="validated-content" links="`)
			out.WriteString(section.JoinLinks(s.Links))
			out.WriteString("\">\n\n")
			if verdict == validator.NoLongerValid {
				out.WriteString(p.opts.InvalidMessage)
			} else {
				verb := "is"
				if len(ids) != 1 {
					verb = "are"
				}
				out.WriteString("⚠️ This is only valid while " + issue.MarkdownMany(ids) + " " + verb + " open")
			}
			out.WriteString(s.Body)
			out.WriteString("\n</div>")
		}
	}
	return out.String(), nil
}

// aggregate reduces per-link verdicts with AND semantics: the section is
// valid only if every link is. Checks run concurrently; the reduction is
// commutative so ordering does not matter, and every link is evaluated.
func (p *Processor) aggregate(ctx context.Context, ids []issue.Identity) validator.Verdict {
	verdicts := make([]validator.Verdict, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			verdicts[i] = p.validator.Validate(gctx, id)
			return nil
		})
	}
	_ = g.Wait()

	for _, v := range verdicts {
		if v != validator.Valid {
			return validator.NoLongerValid
		}
	}
	return validator.Valid
}
