package render

import (
	"path"
	"strings"

	"github.com/WaylonWalker/bckt-go/pkg/models"
)

// attributePrefixes are the only markers the scanner reacts to. They
// must sit at attribute-start boundaries; srcset, data-* and text
// content never match.
var attributePrefixes = []struct {
	prefix string
	quote  byte
}{
	{`src="`, '"'},
	{`src='`, '\''},
	{`href="`, '"'},
	{`href='`, '\''},
}

// untouchedSchemes leave an attribute value alone (compared
// case-insensitively). Rooted, fragment-only and protocol-relative values
// are skipped separately in rewriteIfAttached.
var untouchedSchemes = []string{"http://", "https://", "mailto:", "tel:", "data:", "javascript:"}

// RewriteAttachedURLs scans rendered HTML for src/href attribute values
// that reference one of the post's attached assets and rewrites them.
// With returnAbsolute the value becomes a fully qualified URL under the
// post's permalink; otherwise the bare path part is kept so the link
// resolves relative to the post directory.
func RewriteAttachedURLs(body, permalink, baseURL string, attached []string, returnAbsolute bool) string {
	if len(attached) == 0 {
		return body
	}

	attachedPaths := make(map[string]bool, len(attached))
	for _, item := range attached {
		if strings.HasPrefix(item, "/") {
			continue
		}
		attachedPaths[normalizePath(item)] = true
	}
	if len(attachedPaths) == 0 {
		return body
	}

	var out strings.Builder
	out.Grow(len(body))

	i := 0
	for i < len(body) {
		quote, prefixLen := matchAttribute(body[i:])
		if prefixLen > 0 && !attributeBoundary(body, i) {
			prefixLen = 0
		}
		if prefixLen == 0 {
			out.WriteByte(body[i])
			i++
			continue
		}

		out.WriteString(body[i : i+prefixLen])
		valueStart := i + prefixLen
		valueEnd := strings.IndexByte(body[valueStart:], quote)
		if valueEnd < 0 {
			out.WriteString(body[valueStart:])
			break
		}
		valueEnd += valueStart

		value := body[valueStart:valueEnd]
		if rewritten, ok := rewriteIfAttached(value, permalink, baseURL, attachedPaths, returnAbsolute); ok {
			out.WriteString(rewritten)
		} else {
			out.WriteString(value)
		}

		out.WriteByte(quote)
		i = valueEnd + 1
	}

	return out.String()
}

// attributeBoundary reports whether position i sits at an attribute
// start: preceded by whitespace. This keeps srcset=, data-src= and text
// content from matching.
func attributeBoundary(body string, i int) bool {
	if i == 0 {
		return false
	}
	switch body[i-1] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func matchAttribute(input string) (byte, int) {
	for _, candidate := range attributePrefixes {
		if strings.HasPrefix(input, candidate.prefix) {
			return candidate.quote, len(candidate.prefix)
		}
	}
	return 0, 0
}

func rewriteIfAttached(value, permalink, baseURL string, attached map[string]bool, returnAbsolute bool) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}

	if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	lower := strings.ToLower(trimmed)
	for _, scheme := range untouchedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}

	relative := trimmed
	for strings.HasPrefix(relative, "./") {
		relative = relative[2:]
	}
	if relative == "" {
		return "", false
	}

	pathPart := relative
	suffix := ""
	if idx := strings.IndexAny(relative, "?#"); idx >= 0 {
		pathPart, suffix = relative[:idx], relative[idx:]
	}

	if !attached[pathPart] {
		return "", false
	}

	if returnAbsolute {
		joined := path.Join(strings.Trim(permalink, "/"), pathPart)
		return models.AbsoluteURL(baseURL, "/"+joined) + suffix, true
	}
	return pathPart + suffix, true
}
