package models

// Config holds the site configuration loaded from bckt.yaml.
type Config struct {
	// Title is the optional site/feed title.
	Title string

	// BaseURL is the absolute site URL, preserved verbatim.
	BaseURL string

	// HomepagePosts is the homepage/numbered page size.
	HomepagePosts int

	// DateFormat is either the literal "RFC3339" or a Go reference layout.
	DateFormat string

	// PaginateTags is parsed and validated but currently reserved.
	PaginateTags bool

	// DefaultTimezone is the offset assumed for naive front-matter dates,
	// e.g. "UTC" or "+02:00".
	DefaultTimezone string

	// Theme is the active theme name; a single path segment.
	Theme string

	// Search configures the client-side search index.
	Search SearchConfig

	// Extra preserves unrecognized top-level keys for templates.
	Extra map[string]interface{}
}

// SearchConfig configures the search index artifact.
type SearchConfig struct {
	// AssetPath is the relative output path of the search JSON under html/.
	AssetPath string

	// DefaultLanguage must appear in Languages.
	DefaultLanguage string

	// Languages lists the configured index languages.
	Languages []SearchLanguage
}

// SearchLanguage describes one search language entry.
type SearchLanguage struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Stopwords []string `json:"stopwords" yaml:"stopwords"`
}

// NewConfig returns a Config populated with defaults. These apply when
// bckt.yaml is absent and back-fill any omitted keys.
func NewConfig() *Config {
	return &Config{
		BaseURL:         "https://example.com",
		HomepagePosts:   5,
		DateFormat:      "2006-01-02",
		PaginateTags:    true,
		DefaultTimezone: "+00:00",
		Theme:           "bckt3",
		Search:          defaultSearchConfig(),
		Extra:           make(map[string]interface{}),
	}
}

func defaultSearchConfig() SearchConfig {
	return SearchConfig{
		AssetPath:       "assets/search/search-index.json",
		DefaultLanguage: "en",
		Languages: []SearchLanguage{
			{
				ID:   "en",
				Name: "English",
				Stopwords: []string{
					"a", "an", "and", "are", "as", "at", "be", "but", "by", "for",
					"from", "has", "have", "in", "is", "it", "of", "on", "or",
					"that", "the", "to", "was", "were", "will", "with", "you",
					"your", "about", "into", "more", "can", "do", "just", "like",
					"not", "only", "out", "some", "than", "then", "there", "this",
					"up", "what", "when", "who", "why",
				},
			},
			{
				ID:   "el",
				Name: "Greek",
				Stopwords: []string{
					"και", "να", "σε", "το", "η", "ο", "οι", "τα", "για", "με",
					"που", "ως", "από", "αυτο", "αυτά", "αυτή", "αυτό", "αυτές",
					"αυτοί", "αυτών", "είναι", "στο", "στη", "στην", "στον",
					"τους", "τις", "των", "μια", "μιας", "μιαν", "μου", "σου",
					"του", "της", "μας", "σας", "αν", "θα", "δε", "δεν", "πως",
					"ότι", "όπως", "όταν", "όσο",
				},
			},
		},
	}
}

// TemplateContext exposes the configuration to templates as a map with
// the YAML key names, including every preserved extra key.
func (c *Config) TemplateContext() map[string]interface{} {
	ctx := make(map[string]interface{}, len(c.Extra)+8)
	for key, value := range c.Extra {
		ctx[key] = value
	}

	ctx["title"] = c.Title
	ctx["base_url"] = c.BaseURL
	ctx["homepage_posts"] = c.HomepagePosts
	ctx["date_format"] = c.DateFormat
	ctx["paginate_tags"] = c.PaginateTags
	ctx["default_timezone"] = c.DefaultTimezone
	ctx["theme"] = c.Theme

	languages := make([]map[string]interface{}, 0, len(c.Search.Languages))
	for _, lang := range c.Search.Languages {
		languages = append(languages, map[string]interface{}{
			"id":        lang.ID,
			"name":      lang.Name,
			"stopwords": lang.Stopwords,
		})
	}
	ctx["search"] = map[string]interface{}{
		"asset_path":       c.Search.AssetPath,
		"default_language": c.Search.DefaultLanguage,
		"languages":        languages,
	}

	return ctx
}
