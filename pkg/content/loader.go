// Package content walks the posts tree, parses front matter and builds
// normalized Post records with rendered bodies, excerpts and languages.
package content

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/WaylonWalker/bckt-go/pkg/models"
)

// mainFilePattern matches a post directory's main content file by
// extension, case-insensitively against the lowercased name.
const mainFilePattern = "*.{md,html}"

var postTypePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// DiscoverPosts walks the posts directory recursively and loads every
// directory that directly contains exactly one main content file. The
// result is sorted ascending by (date, slug).
func DiscoverPosts(postsDir string, cfg *models.Config) ([]*models.Post, error) {
	if _, err := os.Stat(postsDir); err != nil {
		return nil, fmt.Errorf("posts directory %s does not exist", postsDir)
	}

	var posts []*models.Post
	err := filepath.WalkDir(postsDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() || path == postsDir {
			return nil
		}
		post, err := loadPost(path, cfg)
		if err != nil {
			return err
		}
		if post != nil {
			posts = append(posts, post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Slug < posts[j].Slug
		}
		return posts[i].Date.Before(posts[j].Date)
	})
	return posts, nil
}

// loadPost loads one post directory, returning nil when the directory
// holds no main content file.
func loadPost(dir string, cfg *models.Config) (*models.Post, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", dir, err)
	}

	var mainFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := doublestar.Match(mainFilePattern, strings.ToLower(entry.Name()))
		if err != nil {
			return nil, err
		}
		if matched {
			mainFiles = append(mainFiles, filepath.Join(dir, entry.Name()))
		}
	}

	if len(mainFiles) == 0 {
		return nil, nil
	}
	if len(mainFiles) > 1 {
		return nil, fmt.Errorf("%s: expected exactly one main content file, found %d", dir, len(mainFiles))
	}

	contentPath := mainFiles[0]
	raw, err := os.ReadFile(contentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", contentPath, err)
	}

	front, body, err := ParseFrontMatter(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: missing or invalid front matter: %w", contentPath, err)
	}

	if front.Date == "" {
		return nil, fmt.Errorf("%s: date is required", contentPath)
	}
	date, err := ParsePostDate(front.Date, cfg, contentPath)
	if err != nil {
		return nil, err
	}

	slug, err := determineSlug(dir, front.Slug)
	if err != nil {
		return nil, err
	}

	bodyHTML, excerpt, err := renderBody(contentPath, body)
	if err != nil {
		return nil, err
	}
	plainText := PlainText(bodyHTML)

	postType, err := normalizePostType(front.Type, contentPath)
	if err != nil {
		return nil, err
	}

	attached, err := normalizeAttached(front.Attached, contentPath)
	if err != nil {
		return nil, err
	}

	return &models.Post{
		Title:       front.Title,
		Slug:        slug,
		Date:        date,
		Tags:        front.Tags,
		Type:        postType,
		Abstract:    front.Abstract,
		Attached:    attached,
		BodyHTML:    bodyHTML,
		Excerpt:     excerpt,
		Language:    ResolveLanguage(front.Language, plainText, cfg),
		SearchText:  plainText,
		SourceDir:   dir,
		ContentPath: contentPath,
		Permalink:   models.BuildPermalink(date, slug),
		Extra:       front.Extra,
	}, nil
}

func determineSlug(dir, provided string) (string, error) {
	raw := provided
	if raw == "" {
		raw = filepath.Base(dir)
	}
	slug := models.Slugify(raw)
	if slug == "" {
		return "", fmt.Errorf("%s: slug cannot be empty", dir)
	}
	return slug, nil
}

func normalizePostType(value, origin string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	normalized := strings.ToLower(trimmed)
	if !postTypePattern.MatchString(normalized) {
		return "", fmt.Errorf("%s: type may only contain lowercase letters, digits, '-' or '_'", origin)
	}
	return normalized, nil
}

func normalizeAttached(paths []string, origin string) ([]string, error) {
	for _, path := range paths {
		for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
			if segment == ".." {
				return nil, fmt.Errorf("%s: attached path %q must not traverse upward", origin, path)
			}
		}
	}
	return paths, nil
}

func renderBody(path, body string) (string, string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		rendered, err := RenderMarkdown(body)
		if err != nil {
			return "", "", fmt.Errorf("%s: failed to render markdown: %w", path, err)
		}
		return rendered.HTML, rendered.Excerpt, nil
	case ".html":
		clean := strings.TrimSpace(body)
		return clean, ExcerptFromHTML(clean), nil
	default:
		return "", "", fmt.Errorf("%s: unsupported content extension", path)
	}
}
