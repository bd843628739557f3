package issue

import (
	"fmt"
	"strings"
)

// Markdown renders one identity as a Markdown link. Tracker items get a
// compact code-styled label; opaque links use the URL as its own label.
func Markdown(id Identity) string {
	if t := id.Tracker; t != nil {
		return fmt.Sprintf("[`%s/%s#%s`](%s)", t.Owner, t.Repo, t.Number, id.URL)
	}
	return fmt.Sprintf("[`%s`](%s)", id.URL, id.URL)
}

// MarkdownMany renders a list of identities as an "and"-joined phrase:
// one item stands alone, two are joined with ", and ", three or more are
// comma-joined with ", and " before the last.
func MarkdownMany(ids []Identity) string {
	rendered := make([]string, len(ids))
	for i, id := range ids {
		rendered[i] = Markdown(id)
	}

	switch len(rendered) {
	case 0:
		return ""
	case 1:
		return rendered[0]
	case 2:
		return rendered[0] + ", and " + rendered[1]
	default:
		return strings.Join(rendered[:len(rendered)-1], ", ") + ", and " + rendered[len(rendered)-1]
	}
}
