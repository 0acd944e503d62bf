package render

import (
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/WaylonWalker/bckt-go/pkg/config"
	"github.com/WaylonWalker/bckt-go/pkg/models"
)

// paginationContext exposes a Pagination value to templates with the
// serialized key names.
func paginationContext(p models.Pagination) map[string]interface{} {
	return map[string]interface{}{
		"current": p.Current,
		"total":   p.Total,
		"prev":    p.Prev,
		"next":    p.Next,
	}
}


// canonicalPostKeys are the computed context fields. Surplus front-matter
// keys that clash with them are ignored in favor of the canonical value.
var canonicalPostKeys = map[string]bool{
	"title": true, "slug": true, "date": true, "date_iso": true,
	"language": true, "tags": true, "type": true, "abstract": true,
	"attached": true, "body": true, "excerpt": true, "permalink": true,
	"attachments": true,
}

// buildPostContext assembles the template context for a full post page:
// every post field plus the formatted dates, the rewritten body, the
// normalized attachment list with metadata, and the surplus front-matter
// keys as siblings.
func buildPostContext(cfg *models.Config, post *models.Post) map[string]interface{} {
	ctx := buildPostSummary(cfg, post)
	ctx["attached"] = normalizedAttachedList(post)
	return ctx
}

// buildPostSummary assembles the listing context for a post. The body is
// rewritten with site-relative attachment links.
func buildPostSummary(cfg *models.Config, post *models.Post) map[string]interface{} {
	ctx := make(map[string]interface{}, len(post.Extra)+13)

	for key, value := range post.Extra {
		if !canonicalPostKeys[key] {
			ctx[key] = value
		}
	}

	ctx["title"] = titleValue(post)
	ctx["slug"] = post.Slug
	ctx["date"] = config.FormatDate(cfg, post.Date)
	ctx["date_iso"] = post.Date.Format(time.RFC3339)
	ctx["language"] = post.Language
	ctx["tags"] = post.Tags
	ctx["type"] = post.Type
	ctx["abstract"] = abstractValue(post)
	ctx["body"] = RewriteAttachedURLs(post.BodyHTML, post.Permalink, cfg.BaseURL, post.Attached, false)
	ctx["excerpt"] = post.Excerpt
	ctx["permalink"] = post.Permalink
	ctx["attachments"] = attachmentMetadata(post)

	return ctx
}

func titleValue(post *models.Post) interface{} {
	if post.Title == nil {
		return nil
	}
	return *post.Title
}

func abstractValue(post *models.Post) interface{} {
	if post.Abstract == nil {
		return nil
	}
	return *post.Abstract
}

// normalizedAttachedList returns the sorted, deduplicated, normalized
// attachment paths.
func normalizedAttachedList(post *models.Post) []string {
	seen := make(map[string]bool, len(post.Attached))
	for _, item := range post.Attached {
		seen[normalizePath(item)] = true
	}
	list := make([]string, 0, len(seen))
	for item := range seen {
		list = append(list, item)
	}
	sort.Strings(list)
	return list
}

// attachmentMetadata maps each normalized attachment path to its size
// and MIME type. Assets missing on disk are skipped here; the copy step
// is where a missing asset becomes fatal.
func attachmentMetadata(post *models.Post) map[string]interface{} {
	attachments := make(map[string]interface{}, len(post.Attached))
	for _, relative := range post.Attached {
		assetPath := filepath.Join(post.SourceDir, filepath.FromSlash(relative))
		info, err := os.Stat(assetPath)
		if err != nil {
			continue
		}
		attachments[normalizePath(relative)] = map[string]interface{}{
			"size":      info.Size(),
			"mime_type": mimeTypeFor(relative),
		}
	}
	return attachments
}

func mimeTypeFor(path string) string {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		return "application/octet-stream"
	}
	// Drop charset parameters so templates see the bare type
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}
