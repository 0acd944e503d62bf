package content

import (
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"

	"github.com/WaylonWalker/bckt-go/pkg/models"
)

// minDetectionChars is the minimum plain-text length before language
// detection is attempted.
const minDetectionChars = 24

// ResolveLanguage determines a post's canonical language tag. A non-blank
// explicit front-matter value always wins, mapped onto a configured
// language id when one matches and passed through sanitized otherwise;
// without one the plain-text body is detected (gated by length and
// reliability); otherwise the configured default applies.
func ResolveLanguage(explicit, bodyText string, cfg *models.Config) string {
	lookup := LanguageLookup(cfg.Search.Languages)

	if explicit != "" {
		if tag, ok := CanonicalLanguage(explicit, lookup); ok {
			return tag
		}
	}

	if guessed := guessLanguage(bodyText); guessed != "" {
		if tag, ok := CanonicalLanguage(guessed, lookup); ok {
			return tag
		}
	}

	if tag, ok := CanonicalLanguage(cfg.Search.DefaultLanguage, lookup); ok {
		return tag
	}
	return sanitizeLanguage(cfg.Search.DefaultLanguage)
}

// LanguageLookup builds the alias map from configured language ids,
// including ISO-639 2↔3-letter primary-form aliases.
func LanguageLookup(languages []models.SearchLanguage) map[string]string {
	lookup := make(map[string]string)
	for _, entry := range languages {
		canonical := sanitizeLanguage(entry.ID)
		if canonical == "" {
			continue
		}
		lookup[canonical] = entry.ID
		for _, alias := range languageAliases(canonical) {
			if _, exists := lookup[alias]; !exists {
				lookup[alias] = entry.ID
			}
		}
	}
	return lookup
}

// languageAliases returns the ISO-639 alias forms of an id's primary
// subtag: its 2-letter code (when one exists) and its 3-letter code.
func languageAliases(id string) []string {
	primary := id
	if idx := strings.Index(id, "-"); idx > 0 {
		primary = id[:idx]
	}
	if len(primary) != 2 && len(primary) != 3 {
		return nil
	}

	base, err := language.ParseBase(primary)
	if err != nil {
		return nil
	}

	aliases := []string{strings.ToLower(base.String())}
	if iso3 := base.ISO3(); iso3 != "" {
		aliases = append(aliases, strings.ToLower(iso3))
	}
	return aliases
}

// CanonicalLanguage maps a value onto a configured language id: direct
// match first, then the primary subtag of an x-y form. The sanitized
// value passes through unmapped when nothing matches.
func CanonicalLanguage(value string, lookup map[string]string) (string, bool) {
	sanitized := sanitizeLanguage(value)
	if sanitized == "" {
		return "", false
	}

	if found, ok := lookup[sanitized]; ok {
		return found, true
	}

	if idx := strings.Index(sanitized, "-"); idx > 0 {
		if found, ok := lookup[sanitized[:idx]]; ok {
			return found, true
		}
	}

	return sanitized, true
}

func sanitizeLanguage(value string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), "_", "-"))
}

// guessLanguage detects the language of body text, returning the
// shortest ISO-639 code, or empty when the text is too short or the
// detection is unreliable.
func guessLanguage(bodyText string) string {
	trimmed := strings.TrimSpace(bodyText)
	if utf8.RuneCountInString(trimmed) < minDetectionChars {
		return ""
	}

	info := whatlanggo.Detect(trimmed)
	if !info.IsReliable() {
		return ""
	}

	iso3 := info.Lang.Iso6393()
	if iso3 == "" {
		return ""
	}

	if base, err := language.ParseBase(iso3); err == nil {
		return strings.ToLower(base.String())
	}
	return strings.ToLower(iso3)
}
