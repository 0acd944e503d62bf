// Package search builds the client-side search index artifact: a single
// JSON document enumerating posts and facets, digest-gated on emission.
package search

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/WaylonWalker/bckt-go/pkg/config"
	"github.com/WaylonWalker/bckt-go/pkg/content"
	"github.com/WaylonWalker/bckt-go/pkg/digest"
	"github.com/WaylonWalker/bckt-go/pkg/models"
)

// Artifact is the serialized search index plus its content address.
type Artifact struct {
	Bytes         []byte
	Digest        string
	DocumentCount int
}

type index struct {
	Version         int            `json:"version"`
	GeneratedAt     string         `json:"generated_at"`
	DefaultLanguage string         `json:"default_language"`
	Languages       []languageMeta `json:"languages"`
	Documents       []document     `json:"documents"`
	Facets          facets         `json:"facets"`
}

type languageMeta struct {
	ID        string   `json:"id"`
	Name      string   `json:"name,omitempty"`
	Stopwords []string `json:"stopwords"`
}

type document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags"`
	Type        string   `json:"type,omitempty"`
	DateDisplay string   `json:"date_display"`
	DateISO     string   `json:"date_iso"`
	Timestamp   int64    `json:"timestamp"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
}

type facets struct {
	Tags  []string `json:"tags"`
	Types []string `json:"types"`
	Years []int    `json:"years"`
}

// BuildIndex serializes the search index for the given posts. The digest
// covers the same document serialized with generated_at emptied.
func BuildIndex(cfg *models.Config, posts []*models.Post) (*Artifact, error) {
	lookup := content.LanguageLookup(cfg.Search.Languages)
	defaultLanguage, ok := content.CanonicalLanguage(cfg.Search.DefaultLanguage, lookup)
	if !ok {
		defaultLanguage = strings.ToLower(strings.TrimSpace(cfg.Search.DefaultLanguage))
	}

	documents := make([]document, 0, len(posts))
	tagSet := make(map[string]bool)
	typeSet := make(map[string]bool)
	yearSet := make(map[int]bool)

	for _, post := range posts {
		language, ok := content.CanonicalLanguage(post.Language, lookup)
		if !ok {
			language = defaultLanguage
		}

		tags := sortedDeduped(post.Tags)
		for _, tag := range tags {
			tagSet[tag] = true
		}
		if post.Type != "" {
			typeSet[post.Type] = true
		}
		yearSet[post.Date.Year()] = true

		documents = append(documents, document{
			ID:          post.Permalink,
			Title:       documentTitle(post),
			URL:         post.Permalink,
			Language:    language,
			Tags:        tags,
			Type:        post.Type,
			DateDisplay: config.FormatDate(cfg, post.Date),
			DateISO:     post.Date.Format(time.RFC3339),
			Timestamp:   post.Date.Unix(),
			Excerpt:     documentExcerpt(post),
			Content:     post.SearchText,
		})
	}

	languages := make([]languageMeta, 0, len(cfg.Search.Languages))
	for _, entry := range cfg.Search.Languages {
		languages = append(languages, languageMeta{
			ID:        entry.ID,
			Name:      entry.Name,
			Stopwords: normalizeStopwords(entry.Stopwords),
		})
	}

	payload := index{
		Version:         1,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		DefaultLanguage: defaultLanguage,
		Languages:       languages,
		Documents:       documents,
		Facets: facets{
			Tags:  sortedKeys(tagSet),
			Types: sortedKeys(typeSet),
			Years: sortedYears(yearSet),
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize search index: %w", err)
	}

	// The digest excludes generated_at so identical inputs produce
	// identical search_index_hash values across runs.
	stable := payload
	stable.GeneratedAt = ""
	stableBytes, err := json.Marshal(stable)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize search index: %w", err)
	}

	return &Artifact{
		Bytes:         data,
		Digest:        digest.Bytes(stableBytes),
		DocumentCount: len(documents),
	}, nil
}

// ResolveAssetPath locates the search JSON under the html root.
func ResolveAssetPath(htmlRoot, assetPath string) string {
	trimmed := strings.TrimLeft(assetPath, "/")
	return filepath.Join(htmlRoot, filepath.FromSlash(trimmed))
}

// documentTitle falls back to the slug when a post has no title.
func documentTitle(post *models.Post) string {
	if post.Title != nil && *post.Title != "" {
		return *post.Title
	}
	return post.Slug
}

// documentExcerpt prefers the abstract, then the computed excerpt, then
// the title or slug.
func documentExcerpt(post *models.Post) string {
	if post.Abstract != nil && *post.Abstract != "" {
		return *post.Abstract
	}
	if strings.TrimSpace(post.Excerpt) != "" {
		return post.Excerpt
	}
	return documentTitle(post)
}

func sortedDeduped(values []string) []string {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		if value != "" {
			set[value] = true
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedYears(set map[int]bool) []int {
	years := make([]int, 0, len(set))
	for year := range set {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// normalizeStopwords lowercases, trims, dedupes and sorts a stopword
// list.
func normalizeStopwords(stopwords []string) []string {
	set := make(map[string]bool, len(stopwords))
	for _, word := range stopwords {
		normalized := strings.ToLower(strings.TrimSpace(word))
		if normalized != "" {
			set[normalized] = true
		}
	}
	return sortedKeys(set)
}
