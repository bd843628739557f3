// Package issue classifies section links into structured identities.
//
// A link either points at a tracker item (an issue or pull request on a
// GitHub-style hosting path) or it is an opaque link we can only probe for
// liveness. Classification is a pure function of the URL string and never
// fails; anything unrecognized is an opaque link.
package issue

import (
	"net/url"
	"regexp"
	"strings"
)

// Kind distinguishes tracker issues from pull requests.
type Kind int

const (
	KindIssue Kind = iota
	KindPullRequest
)

// String returns a stable name for logging.
func (k Kind) String() string {
	if k == KindPullRequest {
		return "pull_request"
	}
	return "issue"
}

// PathSegment is the vocabulary used in tracker URLs. Note the singular
// "pull": this mirrors the hosting site's URL scheme, not the API.
func (k Kind) PathSegment() string {
	if k == KindPullRequest {
		return "pull"
	}
	return "issues"
}

// APISegment is the collection name used in state queries. The API uses the
// plural "pulls" where the URL grammar uses "pull"; the asymmetry is the
// remote service's, not ours.
func (k Kind) APISegment() string {
	if k == KindPullRequest {
		return "pulls"
	}
	return "issues"
}

// Tracker identifies one issue or pull request. Owner, Repo and Number are
// extracted substrings; they are not checked for existence.
type Tracker struct {
	Owner  string
	Repo   string
	Number string
	Kind   Kind
}

// Identity is the classification of one link. URL is always set and refers
// to the originally parsed URL. Tracker is nil for opaque links.
type Identity struct {
	URL     *url.URL
	Tracker *Tracker
}

var trackerPattern = regexp.MustCompile(`(?i)github\.com/(.+?)/(.+?)/(issues|pull)/(\d+)$`)

// FromURL classifies a link. URLs whose path ends in
// <owner>/<repo>/(issues|pull)/<number> on github.com become tracker items;
// everything else is an opaque link.
func FromURL(u *url.URL) Identity {
	m := trackerPattern.FindStringSubmatch(u.String())
	if m == nil {
		return Identity{URL: u}
	}

	kind := KindPullRequest
	if strings.EqualFold(m[3], "issues") {
		kind = KindIssue
	}

	return Identity{
		URL: u,
		Tracker: &Tracker{
			Owner:  m[1],
			Repo:   m[2],
			Number: m[4],
			Kind:   kind,
		},
	}
}
