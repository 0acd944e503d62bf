package content

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingFrontMatter indicates a post without a leading front-matter
// block. Front matter is mandatory for every post.
var ErrMissingFrontMatter = errors.New("front matter must start with ---")

// ErrUnterminatedFrontMatter indicates an opening --- without a closing
// delimiter line.
var ErrUnterminatedFrontMatter = errors.New("front matter not terminated with ---")

const frontMatterDelimiter = "---"

// FrontMatter holds the recognized post metadata keys. Every other key
// is preserved in Extra.
type FrontMatter struct {
	Title    *string
	Slug     string
	Date     string
	Tags     []string
	Type     string
	Abstract *string
	Language string
	Attached []string
	Extra    map[string]interface{}
}

// ParseFrontMatter splits raw content into parsed front matter and body.
// The document must open with a --- line; an empty front-matter body is
// permitted.
func ParseFrontMatter(raw string) (*FrontMatter, string, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	lines := strings.Split(raw, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterDelimiter {
		return nil, "", ErrMissingFrontMatter
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != frontMatterDelimiter {
			continue
		}
		front, err := parseYAML(strings.Join(lines[1:i], "\n"))
		if err != nil {
			return nil, "", err
		}
		body := strings.Join(lines[i+1:], "\n")
		return front, body, nil
	}

	return nil, "", ErrUnterminatedFrontMatter
}

func parseYAML(source string) (*FrontMatter, error) {
	front := &FrontMatter{Extra: make(map[string]interface{})}
	if strings.TrimSpace(source) == "" {
		return front, nil
	}

	fields := make(map[string]interface{})
	if err := yaml.Unmarshal([]byte(source), &fields); err != nil {
		return nil, fmt.Errorf("invalid front matter: %w", err)
	}

	for key, value := range fields {
		switch key {
		case "title":
			front.Title = optionalString(value)
		case "slug":
			front.Slug = stringValue(value)
		case "date":
			front.Date = stringValue(value)
		case "tags":
			front.Tags = stringList(value)
		case "type":
			front.Type = stringValue(value)
		case "abstract":
			front.Abstract = optionalString(value)
		case "language":
			front.Language = stringValue(value)
		case "attached":
			front.Attached = stringList(value)
		default:
			front.Extra[key] = value
		}
	}

	return front, nil
}

func optionalString(value interface{}) *string {
	s := stringValue(value)
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// stringList accepts a YAML list of strings or a single comma-delimited
// string. Elements are trimmed; empty elements are dropped.
func stringList(value interface{}) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return splitCSV(v)
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			trimmed := strings.TrimSpace(stringValue(item))
			if trimmed != "" {
				items = append(items, trimmed)
			}
		}
		return items
	default:
		return nil
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
