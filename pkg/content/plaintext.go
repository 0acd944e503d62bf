package content

import (
	"strings"
	"unicode/utf8"
)

// excerptLimit caps excerpt length in characters.
const excerptLimit = 280

// PlainText strips HTML tags and collapses whitespace, producing the
// text form fed to the search index.
func PlainText(html string) string {
	var b strings.Builder
	b.Grow(len(html))
	inTag := false
	lastSpace := false

	for _, ch := range html {
		switch ch {
		case '<':
			inTag = true
			continue
		case '>':
			inTag = false
			continue
		}
		if inTag {
			continue
		}

		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(ch)
		lastSpace = false
	}

	return strings.TrimSpace(b.String())
}

// ExcerptFromHTML derives a plain-text excerpt from pass-through HTML.
// Every tag, opening or closing, becomes a separator so adjacent block
// text does not fuse.
func ExcerptFromHTML(html string) string {
	var b strings.Builder
	b.Grow(len(html))
	inTag := false

	for _, ch := range html {
		switch {
		case ch == '<':
			inTag = true
		case ch == '>':
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteRune(ch)
		}
	}

	text := strings.Join(strings.Fields(b.String()), " ")
	return truncateExcerpt(text, excerptLimit)
}

// truncateExcerpt limits text to limit characters, appending an ellipsis
// when anything was cut.
func truncateExcerpt(text string, limit int) string {
	if text == "" {
		return ""
	}
	total := utf8.RuneCountInString(text)
	if total <= limit {
		return strings.TrimSpace(text)
	}

	var b strings.Builder
	count := 0
	for _, ch := range text {
		if count >= limit {
			break
		}
		b.WriteRune(ch)
		count++
	}
	return strings.TrimSpace(b.String() + "...")
}
