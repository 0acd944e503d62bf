package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/WaylonWalker/bckt-go/pkg/cachestore"
	"github.com/WaylonWalker/bckt-go/pkg/digest"
	"github.com/WaylonWalker/bckt-go/pkg/models"
	"github.com/WaylonWalker/bckt-go/pkg/templates"
)

// RenderHomepage emits the paginated home pages. The ascending post list
// is split into chunks of the configured page size; the newest chunk is
// the home slot at index.html and older chunks land at /page/<i>/ with
// i=1 holding the oldest posts.
//
// A StoredPage record list (newest chunk first) persists under the
// home_pages key. When the head cursor differs from the persisted head,
// the records are rebuilt and the home page is force-rendered; otherwise
// only pages missing on disk are rendered. Full mode re-emits everything.
func RenderHomepage(posts []*models.Post, htmlRoot string, cfg *models.Config, engine *templates.Engine, store *cachestore.Store, mode models.BuildMode, verbose bool) error {
	if len(posts) == 0 {
		return storeHomePages(store, []models.StoredPage{})
	}

	perPage := cfg.HomepagePosts
	if perPage < 1 {
		perPage = 1
	}

	chunks := chunkPosts(posts, perPage)
	total := len(chunks)

	records := make([]models.StoredPage, 0, total)
	for j := total - 1; j >= 0; j-- {
		chunk := chunks[j]
		keys := make([]string, 0, len(chunk))
		for i := len(chunk) - 1; i >= 0; i-- {
			keys = append(keys, chunk[i].Key())
		}
		records = append(records, models.StoredPage{Cursor: keys[0], Posts: keys})
	}

	stored, err := loadHomePages(store)
	if err != nil {
		return err
	}
	headChanged := len(stored) == 0 || stored[0].Cursor != records[0].Cursor

	for j, chunk := range chunks {
		page := j + 1
		isHome := j == total-1
		output := homePagePath(htmlRoot, page, isHome)

		needsRender := mode == models.ModeFull
		if !needsRender {
			if isHome && headChanged {
				needsRender = true
			} else if _, err := os.Stat(output); err != nil {
				needsRender = true
			}
		}
		if !needsRender {
			logStatus(verbose, "HOME", fmt.Sprintf("Page %d/%d unchanged", page, total))
			continue
		}

		summaries := make([]map[string]interface{}, 0, len(chunk))
		for i := len(chunk) - 1; i >= 0; i-- {
			summaries = append(summaries, buildPostSummary(cfg, chunk[i]))
		}

		ctx := map[string]interface{}{
			"posts":      summaries,
			"pagination": paginationContext(paginationFor(page, total)),
		}
		scope := fmt.Sprintf("rendering homepage page %d of %d", page, total)
		rendered, err := engine.Render("index.html", ctx, scope)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(output), err)
		}
		if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		logStatus(verbose, "HOME", fmt.Sprintf("Rendered page %d/%d", page, total))
	}

	return storeHomePages(store, records)
}

func chunkPosts(posts []*models.Post, perPage int) [][]*models.Post {
	var chunks [][]*models.Post
	for start := 0; start < len(posts); start += perPage {
		end := start + perPage
		if end > len(posts) {
			end = len(posts)
		}
		chunks = append(chunks, posts[start:end])
	}
	return chunks
}

// paginationFor builds the prev/next context for page number page of
// total. Page numbers grow toward the newest posts; the home slot is
// page total.
func paginationFor(page, total int) models.Pagination {
	pagination := models.Pagination{Current: page, Total: total}
	if page > 1 {
		pagination.Prev = pageURL(page - 1)
	}
	switch {
	case page == total:
		pagination.Next = ""
	case page == total-1:
		pagination.Next = "/"
	default:
		pagination.Next = pageURL(page + 1)
	}
	return pagination
}

func pageURL(page int) string {
	return fmt.Sprintf("/page/%d/", page)
}

func homePagePath(htmlRoot string, page int, isHome bool) string {
	if isHome {
		return filepath.Join(htmlRoot, "index.html")
	}
	return filepath.Join(htmlRoot, "page", strconv.Itoa(page), "index.html")
}

func loadHomePages(store *cachestore.Store) ([]models.StoredPage, error) {
	data, ok, err := store.Get(cachestore.HomePagesKey)
	if err != nil || !ok {
		return nil, err
	}
	var pages []models.StoredPage
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("failed to deserialize homepage cache: %w", err)
	}
	return pages, nil
}

func storeHomePages(store *cachestore.Store, pages []models.StoredPage) error {
	data, err := json.Marshal(pages)
	if err != nil {
		return fmt.Errorf("failed to serialize homepage cache: %w", err)
	}
	return store.Insert(cachestore.HomePagesKey, data)
}

type tagBucket struct {
	name    string
	slug    string
	indices []int
}

// collectTagBuckets groups post indices by tag slug, preserving the
// first-seen display name. Indices are in ascending post order.
func collectTagBuckets(posts []*models.Post) map[string]*tagBucket {
	buckets := make(map[string]*tagBucket)
	for idx, post := range posts {
		seen := make(map[string]bool)
		for _, tag := range post.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			slug := models.TagSlug(tag)
			if seen[slug] {
				continue
			}
			seen[slug] = true
			bucket, ok := buckets[slug]
			if !ok {
				bucket = &tagBucket{name: tag, slug: slug}
				buckets[slug] = bucket
			}
			bucket.indices = append(bucket.indices, idx)
		}
	}
	return buckets
}

type tagPayload struct {
	Tag        string                   `json:"tag"`
	Posts      []map[string]interface{} `json:"posts"`
	Pagination models.Pagination        `json:"pagination"`
}

// RenderTagIndexes emits one page per live tag and reclaims pages for
// tags that disappeared: the cache row, the index file and its parent
// directory when empty.
func RenderTagIndexes(posts []*models.Post, htmlRoot string, cfg *models.Config, engine *templates.Engine, store *cachestore.Store, mode models.BuildMode, verbose bool) error {
	buckets := collectTagBuckets(posts)

	keep := make(map[string]bool, len(buckets))

	slugs := make([]string, 0, len(buckets))
	for slug := range buckets {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		bucket := buckets[slug]
		cacheKey := cachestore.TagIndexPrefix + slug
		keep[cacheKey] = true

		// Reverse-date order: newest post first
		summaries := make([]map[string]interface{}, 0, len(bucket.indices))
		for i := len(bucket.indices) - 1; i >= 0; i-- {
			summaries = append(summaries, buildPostSummary(cfg, posts[bucket.indices[i]]))
		}
		pagination := models.Pagination{Current: 1, Total: 1}

		payloadDigest, err := digest.JSONPayload(tagPayload{Tag: bucket.name, Posts: summaries, Pagination: pagination})
		if err != nil {
			return fmt.Errorf("failed to compute digest for tag %s: %w", slug, err)
		}

		output := tagIndexPath(htmlRoot, slug)
		needsRender, err := digestGate(store, cacheKey, payloadDigest, output, mode)
		if err != nil {
			return err
		}

		if needsRender {
			ctx := map[string]interface{}{
				"tag":        bucket.name,
				"posts":      summaries,
				"pagination": paginationContext(pagination),
			}
			rendered, err := engine.Render("tag.html", ctx, "rendering tag page for '"+bucket.name+"'")
			if err != nil {
				return err
			}
			if err := writeOutput(output, rendered); err != nil {
				return err
			}
			if err := store.InsertString(cacheKey, payloadDigest); err != nil {
				return err
			}
			logStatus(verbose, "TAG", "Rendered tag "+slug)
		} else {
			logStatus(verbose, "TAG", "Tag "+slug+" unchanged")
		}
	}

	return cleanupTagCache(store, htmlRoot, keep)
}

type yearPayload struct {
	Year  int                      `json:"year"`
	Posts []map[string]interface{} `json:"posts"`
}

type monthPayload struct {
	Year  int                      `json:"year"`
	Month int                      `json:"month"`
	Posts []map[string]interface{} `json:"posts"`
}

// RenderArchives emits year and month archive pages in descending group
// order and reclaims archives whose group emptied out.
func RenderArchives(posts []*models.Post, htmlRoot string, cfg *models.Config, engine *templates.Engine, store *cachestore.Store, mode models.BuildMode, verbose bool) error {
	yearGroups := make(map[int][]*models.Post)
	monthGroups := make(map[[2]int][]*models.Post)
	for _, post := range posts {
		year := post.Date.Year()
		month := int(post.Date.Month())
		yearGroups[year] = append(yearGroups[year], post)
		monthGroups[[2]int{year, month}] = append(monthGroups[[2]int{year, month}], post)
	}

	years := make([]int, 0, len(yearGroups))
	for year := range yearGroups {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	yearKeys := make(map[string]bool, len(years))
	for _, year := range years {
		summaries := summarize(cfg, yearGroups[year])
		payloadDigest, err := digest.JSONPayload(yearPayload{Year: year, Posts: summaries})
		if err != nil {
			return err
		}

		cacheKey := fmt.Sprintf("%s%04d", cachestore.ArchiveYearPrefix, year)
		yearKeys[cacheKey] = true
		output := archiveYearPath(htmlRoot, year)

		needsRender, err := digestGate(store, cacheKey, payloadDigest, output, mode)
		if err != nil {
			return err
		}
		if needsRender {
			ctx := map[string]interface{}{"year": year, "posts": summaries}
			rendered, err := engine.Render("archive_year.html", ctx, fmt.Sprintf("rendering year archive %04d", year))
			if err != nil {
				return err
			}
			if err := writeOutput(output, rendered); err != nil {
				return err
			}
			if err := store.InsertString(cacheKey, payloadDigest); err != nil {
				return err
			}
			logStatus(verbose, "ARCHIVE", fmt.Sprintf("Rendered year %04d", year))
		} else {
			logStatus(verbose, "ARCHIVE", fmt.Sprintf("Year %04d unchanged", year))
		}
	}

	months := make([][2]int, 0, len(monthGroups))
	for key := range monthGroups {
		months = append(months, key)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i][0] != months[j][0] {
			return months[i][0] > months[j][0]
		}
		return months[i][1] > months[j][1]
	})

	monthKeys := make(map[string]bool, len(months))
	for _, key := range months {
		year, month := key[0], key[1]
		summaries := summarize(cfg, monthGroups[key])
		payloadDigest, err := digest.JSONPayload(monthPayload{Year: year, Month: month, Posts: summaries})
		if err != nil {
			return err
		}

		cacheKey := fmt.Sprintf("%s%04d-%02d", cachestore.ArchiveMonthPrefix, year, month)
		monthKeys[cacheKey] = true
		output := archiveMonthPath(htmlRoot, year, month)

		needsRender, err := digestGate(store, cacheKey, payloadDigest, output, mode)
		if err != nil {
			return err
		}
		if needsRender {
			ctx := map[string]interface{}{"year": year, "month": month, "posts": summaries}
			rendered, err := engine.Render("archive_month.html", ctx, fmt.Sprintf("rendering month archive %04d-%02d", year, month))
			if err != nil {
				return err
			}
			if err := writeOutput(output, rendered); err != nil {
				return err
			}
			if err := store.InsertString(cacheKey, payloadDigest); err != nil {
				return err
			}
			logStatus(verbose, "ARCHIVE", fmt.Sprintf("Rendered month %04d-%02d", year, month))
		} else {
			logStatus(verbose, "ARCHIVE", fmt.Sprintf("Month %04d-%02d unchanged", year, month))
		}
	}

	if err := cleanupMonthArchives(store, htmlRoot, monthKeys); err != nil {
		return err
	}
	return cleanupYearArchives(store, htmlRoot, yearKeys)
}

func summarize(cfg *models.Config, posts []*models.Post) []map[string]interface{} {
	summaries := make([]map[string]interface{}, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, buildPostSummary(cfg, post))
	}
	return summaries
}

// digestGate reports whether an output must be rendered: always in Full
// mode, when the stored digest differs or is absent, or when the output
// file is missing.
func digestGate(store *cachestore.Store, cacheKey, payloadDigest, output string, mode models.BuildMode) (bool, error) {
	if mode == models.ModeFull {
		return true, nil
	}
	cached, ok, err := store.GetString(cacheKey)
	if err != nil {
		return false, err
	}
	if !ok || cached != payloadDigest {
		return true, nil
	}
	if _, err := os.Stat(output); err != nil {
		return true, nil
	}
	return false, nil
}

// writeOutputIfChanged writes rendered output only when the destination
// is missing or holds different bytes, keeping repeat runs from
// advancing mtimes on unchanged files.
func writeOutputIfChanged(output, rendered string) error {
	if existing, err := os.ReadFile(output); err == nil && string(existing) == rendered {
		return nil
	}
	return writeOutput(output, rendered)
}

func writeOutput(output, rendered string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(output), err)
	}
	if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}

func tagIndexPath(htmlRoot, slug string) string {
	return filepath.Join(htmlRoot, "tags", slug, "index.html")
}

// tagIndexURL is the site-absolute URL of a tag index page.
func tagIndexURL(slug string) string {
	return "/tags/" + slug + "/"
}

func archiveYearPath(htmlRoot string, year int) string {
	return filepath.Join(htmlRoot, fmt.Sprintf("%04d", year), "index.html")
}

func archiveMonthPath(htmlRoot string, year, month int) string {
	return filepath.Join(htmlRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "index.html")
}

func cleanupTagCache(store *cachestore.Store, htmlRoot string, keep map[string]bool) error {
	entries, err := store.ScanPrefix(cachestore.TagIndexPrefix)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if keep[entry.Key] {
			continue
		}
		if err := store.Remove(entry.Key); err != nil {
			return err
		}
		slug := strings.TrimPrefix(entry.Key, cachestore.TagIndexPrefix)
		if slug == "" {
			continue
		}
		output := tagIndexPath(htmlRoot, slug)
		if err := removeFileIfExists(output); err != nil {
			return err
		}
		if err := removeDirIfEmpty(filepath.Dir(output)); err != nil {
			return err
		}
	}
	return nil
}

func cleanupYearArchives(store *cachestore.Store, htmlRoot string, keep map[string]bool) error {
	entries, err := store.ScanPrefix(cachestore.ArchiveYearPrefix)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if keep[entry.Key] {
			continue
		}
		if err := store.Remove(entry.Key); err != nil {
			return err
		}
		suffix := strings.TrimPrefix(entry.Key, cachestore.ArchiveYearPrefix)
		year, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		output := archiveYearPath(htmlRoot, year)
		if err := removeFileIfExists(output); err != nil {
			return err
		}
		if err := removeDirIfEmpty(filepath.Dir(output)); err != nil {
			return err
		}
	}
	return nil
}

func cleanupMonthArchives(store *cachestore.Store, htmlRoot string, keep map[string]bool) error {
	entries, err := store.ScanPrefix(cachestore.ArchiveMonthPrefix)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if keep[entry.Key] {
			continue
		}
		if err := store.Remove(entry.Key); err != nil {
			return err
		}
		suffix := strings.TrimPrefix(entry.Key, cachestore.ArchiveMonthPrefix)
		yearStr, monthStr, ok := strings.Cut(suffix, "-")
		if !ok {
			continue
		}
		year, yearErr := strconv.Atoi(yearStr)
		month, monthErr := strconv.Atoi(monthStr)
		if yearErr != nil || monthErr != nil {
			continue
		}
		output := archiveMonthPath(htmlRoot, year, month)
		if err := removeFileIfExists(output); err != nil {
			return err
		}
		if err := removeDirIfEmpty(filepath.Dir(output)); err != nil {
			return err
		}
	}
	return nil
}
