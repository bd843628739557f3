// Package validator decides whether a classified link is still live.
//
// Tracker items are checked against the hosting API's state field; opaque
// links get a HEAD probe. Every failure mode (transport error, non-2xx,
// missing or malformed body) collapses to NoLongerValid: a broken check must
// never abort the surrounding document pass, only hide or flag the section.
package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/docgate/internal/issue"
)

// Verdict is the binary outcome of checking one identity.
type Verdict int

const (
	NoLongerValid Verdict = iota
	Valid
)

func (v Verdict) String() string {
	if v == Valid {
		return "valid"
	}
	return "no_longer_valid"
}

// Validator is the capability of checking one identity's remote state.
// Implementations must be safe for concurrent use and must not share
// mutable state across calls.
type Validator interface {
	Validate(ctx context.Context, id issue.Identity) Verdict
}

// DefaultAPIURL is the tracker API queried for issue and pull request state.
const DefaultAPIURL = "https://api.github.com"

// userAgent identifies this tool on every outbound request.
const userAgent = "inful/docgate"

const maxStateBody = 1 << 20

// LiveValidator checks identities over HTTP.
type LiveValidator struct {
	client *http.Client
	apiURL string
	token  string
	logger *slog.Logger
}

// NewLiveValidator creates a validator against the given tracker API. An
// empty apiURL selects DefaultAPIURL, a nil client gets a 30s timeout, and
// token (optional) is sent as a bearer credential on tracker state queries.
func NewLiveValidator(apiURL, token string, client *http.Client) *LiveValidator {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &LiveValidator{
		client: client,
		apiURL: strings.TrimSuffix(apiURL, "/"),
		token:  token,
		logger: slog.Default(),
	}
}

// Validate checks one identity, fail-closed.
func (v *LiveValidator) Validate(ctx context.Context, id issue.Identity) Verdict {
	if id.Tracker != nil {
		return v.trackerState(ctx, id)
	}
	return v.probe(ctx, id.URL)
}

// trackerState queries the API's issues/pulls sub-resource and interprets
// the machine-readable state field: "open" means still valid, anything else
// (including a state we cannot read) means no longer valid.
func (v *LiveValidator) trackerState(ctx context.Context, id issue.Identity) Verdict {
	t := id.Tracker
	endpoint := fmt.Sprintf("%s/repos/%s/%s/%s/%s", v.apiURL, t.Owner, t.Repo, t.Kind.APISegment(), t.Number)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		v.logger.Warn("failed to build state request", "url", endpoint, "error", err)
		return NoLongerValid
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if v.token != "" {
		req.Header.Set("Authorization", "Bearer "+v.token)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Warn("state request failed", "url", endpoint, "error", err)
		return NoLongerValid
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		v.logger.Warn("state request rejected", "url", endpoint, "status", resp.StatusCode)
		return NoLongerValid
	}

	var state struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxStateBody)).Decode(&state); err != nil {
		v.logger.Warn("unable to decode state response", "url", endpoint, "error", err)
		return NoLongerValid
	}

	if state.State == "open" {
		return Valid
	}
	return NoLongerValid
}

// probe issues a lightweight existence check: HEAD, no body. Any status in
// the 200 range counts as live.
func (v *LiveValidator) probe(ctx context.Context, u *url.URL) Verdict {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), http.NoBody)
	if err != nil {
		v.logger.Warn("failed to build probe request", "url", u.String(), "error", err)
		return NoLongerValid
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Warn("probe failed", "url", u.String(), "error", err)
		return NoLongerValid
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Valid
	}
	v.logger.Warn("probe rejected", "url", u.String(), "status", resp.StatusCode)
	return NoLongerValid
}
