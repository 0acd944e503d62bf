package models

import (
	"fmt"
	"strings"
	"time"
)

// Post represents a single content unit loaded from the posts tree.
// Posts are immutable within a run; every field is resolved at load time.
type Post struct {
	// Title is the optional display title from front matter.
	Title *string

	// Slug is the URL-safe identifier, matching [a-z0-9]+(-[a-z0-9]+)*.
	Slug string

	// Date is the publish instant carrying a fixed UTC offset.
	Date time.Time

	// Tags is the ordered tag list as written, trimmed.
	Tags []string

	// Type is the optional post type (lowercase, [a-z0-9_-]+).
	// Empty means the default post template applies.
	Type string

	// Abstract is the optional free-text summary from front matter.
	Abstract *string

	// Attached holds the relative asset paths declared in front matter.
	Attached []string

	// BodyHTML is the rendered HTML body.
	BodyHTML string

	// Excerpt is the short plain-text form: at most 280 characters, plus
	// a "..." ellipsis when the text was truncated.
	Excerpt string

	// Language is the canonical language tag for this post.
	Language string

	// SearchText is the tag-stripped, whitespace-collapsed body text.
	SearchText string

	// SourceDir is the directory the post was loaded from.
	SourceDir string

	// ContentPath is the main content file path.
	ContentPath string

	// Permalink is the canonical URL path /YYYY/MM/DD/slug/.
	Permalink string

	// Extra holds surplus front-matter keys.
	Extra map[string]interface{}
}

// Key returns the stable post identifier "<unix-timestamp>-<slug>".
// It doubles as the homepage chunk cursor.
func (p *Post) Key() string {
	return fmt.Sprintf("%d-%s", p.Date.Unix(), p.Slug)
}

// BuildPermalink derives the canonical URL path from a date and slug.
func BuildPermalink(date time.Time, slug string) string {
	return fmt.Sprintf("/%04d/%02d/%02d/%s/", date.Year(), int(date.Month()), date.Day(), slug)
}

// Slugify converts a value to a URL-safe slug: ASCII alphanumerics are
// lowercased and every other run of characters collapses to a single
// hyphen. Leading and trailing hyphens are trimmed. The result may be
// empty when the input carries no alphanumerics.
func Slugify(value string) string {
	var b strings.Builder
	previousDash := false

	for _, ch := range value {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
			previousDash = false
		case ch >= 'A' && ch <= 'Z':
			b.WriteRune(ch + ('a' - 'A'))
			previousDash = false
		default:
			if !previousDash && b.Len() > 0 {
				b.WriteByte('-')
				previousDash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// TagSlug slugifies a tag name, falling back to "untagged" when the
// tag carries no sluggable characters.
func TagSlug(tag string) string {
	slug := Slugify(tag)
	if slug == "" {
		return "untagged"
	}
	return slug
}
