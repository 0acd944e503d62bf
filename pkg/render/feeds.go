package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/WaylonWalker/bckt-go/pkg/models"
	"github.com/WaylonWalker/bckt-go/pkg/templates"
)

// fallbackSiteTitle is used when the config carries no title.
const fallbackSiteTitle = "bckt"

// feedItemLimit caps the number of items per feed.
const feedItemLimit = 50

// RenderFeeds emits the site RSS feed, any configured per-tag feeds and
// the sitemap.
func RenderFeeds(posts []*models.Post, htmlRoot string, cfg *models.Config, engine *templates.Engine) error {
	newestFirst := reversed(posts)
	if err := renderFeed(newestFirst, cfg, engine, "/", "/rss.xml", filepath.Join(htmlRoot, "rss.xml"), ""); err != nil {
		return err
	}

	for _, tag := range configTagFeeds(cfg) {
		slug := models.TagSlug(tag)
		var tagPosts []*models.Post
		for _, post := range newestFirst {
			if hasTag(post, tag) {
				tagPosts = append(tagPosts, post)
			}
		}

		title := cfg.Title
		if title == "" {
			title = fallbackSiteTitle
		}
		feedTitle := tag + " · " + title

		err := renderFeed(
			tagPosts, cfg, engine,
			tagIndexURL(slug),
			"/rss-"+slug+".xml",
			filepath.Join(htmlRoot, "rss-"+slug+".xml"),
			feedTitle,
		)
		if err != nil {
			return err
		}
	}

	return renderSitemap(posts, htmlRoot, cfg)
}

func reversed(posts []*models.Post) []*models.Post {
	out := make([]*models.Post, len(posts))
	for i, post := range posts {
		out[len(posts)-1-i] = post
	}
	return out
}

func hasTag(post *models.Post, tag string) bool {
	for _, t := range post.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// renderFeed renders one RSS feed via the rss.xml template. The posts
// must already be in reverse-date order.
func renderFeed(posts []*models.Post, cfg *models.Config, engine *templates.Engine, sitePath, feedPath, outputPath, title string) error {
	siteURL := models.AbsoluteURL(cfg.BaseURL, sitePath)
	feedURL := models.AbsoluteURL(cfg.BaseURL, feedPath)

	if title == "" {
		title = cfg.Title
	}
	if title == "" {
		title = fallbackSiteTitle
	}

	buildDate := time.Now().UTC()
	if len(posts) > 0 {
		buildDate = posts[0].Date
	}

	items := make([]map[string]interface{}, 0, feedItemLimit)
	for _, post := range posts {
		if len(items) == feedItemLimit {
			break
		}
		items = append(items, buildFeedItem(cfg, post))
	}

	feed := map[string]interface{}{
		"title":       xmlEscape(title),
		"site_url":    xmlEscape(siteURL),
		"feed_url":    xmlEscape(feedURL),
		"description": xmlEscape(title),
		"updated":     xmlEscape(formatRFC2822(buildDate)),
		"items":       items,
	}

	scope := "rendering feed " + feedPath
	rendered, err := engine.Render("rss.xml", map[string]interface{}{"feed": feed}, scope)
	if err != nil {
		return err
	}
	return writeOutputIfChanged(outputPath, rendered)
}

// buildFeedItem produces a feed item context: the post summary with its
// body rewritten to fully qualified attachment URLs and CDATA-sanitized,
// plus an RFC 2822 pub_date.
func buildFeedItem(cfg *models.Config, post *models.Post) map[string]interface{} {
	item := buildPostSummary(cfg, post)
	body := RewriteAttachedURLs(post.BodyHTML, post.Permalink, cfg.BaseURL, post.Attached, true)
	item["body"] = sanitizeCDATA(body)
	item["pub_date"] = formatRFC2822(post.Date)
	return item
}

// configTagFeeds reads the rss_tags extra key: a string (comma split) or
// a list of strings. The result is sorted and deduplicated.
func configTagFeeds(cfg *models.Config) []string {
	value, ok := cfg.Extra["rss_tags"]
	if !ok {
		return nil
	}

	var tags []string
	switch v := value.(type) {
	case string:
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					tags = append(tags, trimmed)
				}
			}
		}
	}

	sort.Strings(tags)
	deduped := tags[:0]
	for i, tag := range tags {
		if i == 0 || tag != tags[i-1] {
			deduped = append(deduped, tag)
		}
	}
	return deduped
}

// renderSitemap emits sitemap.xml covering the homepage, the numbered
// pages, every post permalink and every live tag index.
func renderSitemap(posts []*models.Post, htmlRoot string, cfg *models.Config) error {
	type entry struct {
		loc     string
		lastmod string
	}

	var entries []entry

	home := entry{loc: models.AbsoluteURL(cfg.BaseURL, "/")}
	if len(posts) > 0 {
		home.lastmod = formatRFC3339(posts[len(posts)-1].Date)
	}
	entries = append(entries, home)

	perPage := cfg.HomepagePosts
	if perPage < 1 {
		perPage = 1
	}
	chunks := chunkPosts(posts, perPage)
	for i := 0; i < len(chunks)-1; i++ {
		chunk := chunks[i]
		entries = append(entries, entry{
			loc:     models.AbsoluteURL(cfg.BaseURL, pageURL(i+1)),
			lastmod: formatRFC3339(chunk[len(chunk)-1].Date),
		})
	}

	for _, post := range posts {
		entries = append(entries, entry{
			loc:     models.AbsoluteURL(cfg.BaseURL, post.Permalink),
			lastmod: formatRFC3339(post.Date),
		})
	}

	buckets := collectTagBuckets(posts)
	slugs := make([]string, 0, len(buckets))
	for slug := range buckets {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	for _, slug := range slugs {
		bucket := buckets[slug]
		newest := posts[bucket.indices[len(bucket.indices)-1]]
		entries = append(entries, entry{
			loc:     models.AbsoluteURL(cfg.BaseURL, tagIndexURL(slug)),
			lastmod: formatRFC3339(newest.Date),
		})
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n")
	for _, e := range entries {
		b.WriteString("  <url>\n")
		fmt.Fprintf(&b, "    <loc>%s</loc>\n", xmlEscape(e.loc))
		if e.lastmod != "" {
			fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", xmlEscape(e.lastmod))
		}
		b.WriteString("  </url>\n")
	}
	b.WriteString("</urlset>\n")

	return writeOutputIfChanged(filepath.Join(htmlRoot, "sitemap.xml"), b.String())
}
