// Package config loads and validates the site configuration from
// bckt.yaml, exposing derived values such as the default timezone
// offset and search settings.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/WaylonWalker/bckt-go/pkg/models"
)

// rawConfig mirrors the YAML document. Pointer fields distinguish absent
// keys (which fall back to defaults) from explicitly empty ones.
type rawConfig struct {
	Title           *string                `yaml:"title"`
	BaseURL         *string                `yaml:"base_url"`
	HomepagePosts   *int                   `yaml:"homepage_posts"`
	DateFormat      *string                `yaml:"date_format"`
	PaginateTags    *bool                  `yaml:"paginate_tags"`
	DefaultTimezone *string                `yaml:"default_timezone"`
	Theme           *string                `yaml:"theme"`
	Search          *rawSearch             `yaml:"search"`
	Extra           map[string]interface{} `yaml:",inline"`
}

type rawSearch struct {
	AssetPath       *string                 `yaml:"asset_path"`
	DefaultLanguage *string                 `yaml:"default_language"`
	Languages       []models.SearchLanguage `yaml:"languages"`
}

// Load reads <path> and returns the validated configuration. A missing
// file yields the defaults.
func Load(path string) (*models.Config, error) {
	cfg, _, err := LoadWithRaw(path)
	return cfg, err
}

// LoadWithRaw behaves like Load and additionally returns the raw config
// file bytes, which feed the site-inputs digest. The raw bytes are empty
// when the file is missing.
func LoadWithRaw(path string) (*models.Config, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewConfig(), nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := parse(raw, path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, raw, nil
}

func parse(raw []byte, path string) (*models.Config, error) {
	var doc rawConfig
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, newError(KindInvalidYAML, path, "invalid YAML: %v", err)
	}

	cfg := models.NewConfig()

	if doc.Title != nil {
		cfg.Title = *doc.Title
	}
	if doc.BaseURL != nil {
		cfg.BaseURL = *doc.BaseURL
	}
	if doc.HomepagePosts != nil {
		cfg.HomepagePosts = *doc.HomepagePosts
	}
	if doc.DateFormat != nil {
		cfg.DateFormat = *doc.DateFormat
	}
	if doc.PaginateTags != nil {
		cfg.PaginateTags = *doc.PaginateTags
	}
	if doc.DefaultTimezone != nil {
		cfg.DefaultTimezone = *doc.DefaultTimezone
	}
	if doc.Theme != nil {
		cfg.Theme = *doc.Theme
	}
	if doc.Search != nil {
		if doc.Search.AssetPath != nil {
			cfg.Search.AssetPath = *doc.Search.AssetPath
		}
		if doc.Search.DefaultLanguage != nil {
			cfg.Search.DefaultLanguage = *doc.Search.DefaultLanguage
		}
		if doc.Search.Languages != nil {
			cfg.Search.Languages = doc.Search.Languages
		}
	}
	if doc.Extra != nil {
		cfg.Extra = doc.Extra
	}

	if err := Validate(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every invariant of a configuration. The origin path is
// included in each failure.
func Validate(cfg *models.Config, origin string) error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return newError(KindMissingBase, origin, "base_url must not be empty")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || !parsed.IsAbs() {
		return newError(KindInvalidURL, origin, "base_url must be an absolute URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return newError(KindInvalidURL, origin, "base_url must use http or https")
	}

	if cfg.HomepagePosts <= 0 {
		return newError(KindInvalidPageSize, origin, "homepage_posts must be greater than zero")
	}

	if err := ValidateDateFormat(cfg.DateFormat); err != nil {
		return newError(KindInvalidDateFormat, origin, "%v", err)
	}

	if _, err := ParseTimezone(cfg.DefaultTimezone); err != nil {
		return newError(KindInvalidTimezone, origin, "default_timezone %q is invalid (expected offset like +00:00)", cfg.DefaultTimezone)
	}

	if cfg.Theme != "" && strings.ContainsAny(cfg.Theme, "/\\") {
		return newError(KindInvalidTheme, origin, "theme %q must be a single path segment", cfg.Theme)
	}

	return validateSearch(&cfg.Search, origin)
}

func validateSearch(search *models.SearchConfig, origin string) error {
	if strings.TrimSpace(search.AssetPath) == "" {
		return newError(KindEmptyAssetPath, origin, "search.asset_path must not be empty")
	}

	if len(search.Languages) == 0 {
		return newError(KindEmptyLanguages, origin, "search.languages must define at least one language")
	}

	seen := make(map[string]bool, len(search.Languages))
	for _, language := range search.Languages {
		key := strings.ToLower(strings.TrimSpace(language.ID))
		if key == "" {
			return newError(KindEmptyLanguages, origin, "search language ids must not be empty")
		}
		if seen[key] {
			return newError(KindDuplicateLanguage, origin, "duplicate language id %q in search.languages", language.ID)
		}
		seen[key] = true
	}

	fallback := strings.ToLower(strings.TrimSpace(search.DefaultLanguage))
	if fallback == "" {
		return newError(KindDefaultLanguageNotListed, origin, "search.default_language must not be empty")
	}
	if !seen[fallback] {
		return newError(KindDefaultLanguageNotListed, origin, "search.default_language %q not found in search.languages", search.DefaultLanguage)
	}

	return nil
}

// DefaultLocation resolves the configured default timezone. The value is
// validated at load time, so failures only occur for hand-built configs.
func DefaultLocation(cfg *models.Config) (*time.Location, error) {
	return ParseTimezone(cfg.DefaultTimezone)
}
