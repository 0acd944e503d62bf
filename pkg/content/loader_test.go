package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/WaylonWalker/bckt-go/pkg/models"
)

func writePost(t *testing.T, root, dir, name, body string) {
	t.Helper()
	postDir := filepath.Join(root, dir)
	if err := os.MkdirAll(postDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(postDir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverSingleMarkdownPost(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "notes/hello-world", "post.md",
		"---\ntitle: Hello\ndate: 2024-02-01T12:00:00Z\ntags: [rust]\n---\nBody")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts", len(posts))
	}

	post := posts[0]
	if post.Slug != "hello-world" {
		t.Errorf("Slug = %q", post.Slug)
	}
	if len(post.Tags) != 1 || post.Tags[0] != "rust" {
		t.Errorf("Tags = %v", post.Tags)
	}
	if post.Permalink != "/2024/02/01/hello-world/" {
		t.Errorf("Permalink = %q", post.Permalink)
	}
	if post.BodyHTML != "<p>Body</p>\n" {
		t.Errorf("BodyHTML = %q", post.BodyHTML)
	}
	if post.Excerpt != "Body" {
		t.Errorf("Excerpt = %q", post.Excerpt)
	}
}

func TestPreferSlugFromFrontMatter(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "mixed/Example", "post.md",
		"---\ndate: 2024-03-04T00:00:00Z\nslug: Custom Slug\n---\n")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	if posts[0].Slug != "custom-slug" {
		t.Errorf("Slug = %q", posts[0].Slug)
	}
}

func TestRetainsSurplusFrontMatter(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "full", "post.md",
		"---\ntitle: Sample\ndate: 2024-05-06T08:09:10Z\ntags:\n  - summary\n  - rust\nabstract: Short\nattached:\n  - files/data.csv\nimages:\n  - img.png\nvideo_url: https://example.com/video.mp4\nlocation:\n  country: GR\n---\nBody\n")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	post := posts[0]
	if post.Title == nil || *post.Title != "Sample" {
		t.Errorf("Title = %v", post.Title)
	}
	if post.Abstract == nil || *post.Abstract != "Short" {
		t.Errorf("Abstract = %v", post.Abstract)
	}
	if len(post.Attached) != 1 || post.Attached[0] != "files/data.csv" {
		t.Errorf("Attached = %v", post.Attached)
	}
	location, ok := post.Extra["location"].(map[string]interface{})
	if !ok || location["country"] != "GR" {
		t.Errorf("Extra[location] = %v", post.Extra["location"])
	}
	if _, ok := post.Extra["video_url"]; !ok {
		t.Error("video_url should flow into Extra")
	}
	if _, ok := post.Extra["title"]; ok {
		t.Error("recognized keys must not land in Extra")
	}
}

func TestRejectDuplicateMainFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "dupe", "a.md", "---\ndate: 2024-01-01T00:00:00Z\n---\n")
	writePost(t, root, "dupe", "b.html", "---\ndate: 2024-01-01T00:00:00Z\n---\n")

	_, err := DiscoverPosts(root, models.NewConfig())
	if err == nil || !strings.Contains(err.Error(), "expected exactly one") {
		t.Errorf("err = %v", err)
	}
}

func TestRejectMissingFrontMatter(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "missing", "post.md", "no front matter")

	_, err := DiscoverPosts(root, models.NewConfig())
	if err == nil || !strings.Contains(err.Error(), "front matter") {
		t.Errorf("err = %v", err)
	}
}

func TestAllowFrontMatterOnly(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "solo", "post.md", "---\ndate: 2024-01-01T00:00:00Z\n---\n")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	if posts[0].BodyHTML != "" {
		t.Errorf("BodyHTML = %q", posts[0].BodyHTML)
	}
	if posts[0].Excerpt != "" {
		t.Errorf("Excerpt = %q", posts[0].Excerpt)
	}
}

func TestParseCommaSeparatedLists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "list", "post.md",
		"---\ndate: 2024-01-01T00:00:00Z\ntags: one, two , three\nattached: file-a.txt, file-b.txt\n---\n")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	post := posts[0]
	want := []string{"one", "two", "three"}
	if len(post.Tags) != 3 {
		t.Fatalf("Tags = %v", post.Tags)
	}
	for i, tag := range want {
		if post.Tags[i] != tag {
			t.Errorf("Tags[%d] = %q, want %q", i, post.Tags[i], tag)
		}
	}
	if len(post.Attached) != 2 || post.Attached[0] != "file-a.txt" || post.Attached[1] != "file-b.txt" {
		t.Errorf("Attached = %v", post.Attached)
	}
}

func TestAllowsEmptyListFields(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "empty", "post.md",
		"---\ndate: 2024-01-01T00:00:00Z\ntags:\nattached:\n---\nBody")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	if len(posts[0].Tags) != 0 {
		t.Errorf("Tags = %v", posts[0].Tags)
	}
	if len(posts[0].Attached) != 0 {
		t.Errorf("Attached = %v", posts[0].Attached)
	}
}

func TestAcceptsDatetimeWithNumericOffset(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "offset", "post.md", "---\ndate: 2013-01-18 00:25:24 +0200\n---\nBody")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	_, offset := posts[0].Date.Zone()
	if offset != 2*3600 {
		t.Errorf("offset = %d", offset)
	}
}

func TestAcceptsNaiveDatetimeWithDefaultTimezone(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "naive", "post.md", "---\ndate: 2024-01-02 09:30:00\n---\nBody")

	cfg := models.NewConfig()
	cfg.DefaultTimezone = "+02:00"
	posts, err := DiscoverPosts(root, cfg)
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	post := posts[0]
	_, offset := post.Date.Zone()
	if offset != 2*3600 {
		t.Errorf("offset = %d", offset)
	}
	if post.Date.Hour() != 9 || post.Date.Minute() != 30 {
		t.Errorf("time = %v", post.Date)
	}
}

func TestRejectsUnparseableDate(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "bad", "post.md", "---\ndate: next tuesday\n---\nBody")

	_, err := DiscoverPosts(root, models.NewConfig())
	if err == nil || !strings.Contains(err.Error(), "date must be") {
		t.Errorf("err = %v", err)
	}
}

func TestRejectsInvalidPostType(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "typed", "post.md", "---\ndate: 2024-01-01T00:00:00Z\ntype: \"No Spaces\"\n---\n")

	_, err := DiscoverPosts(root, models.NewConfig())
	if err == nil || !strings.Contains(err.Error(), "type may only contain") {
		t.Errorf("err = %v", err)
	}
}

func TestNormalizesPostType(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "typed", "post.md", "---\ndate: 2024-01-01T00:00:00Z\ntype: \" Note \"\n---\n")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	if posts[0].Type != "note" {
		t.Errorf("Type = %q", posts[0].Type)
	}
}

func TestHTMLPostsArePassthrough(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "page", "post.html", "---\ndate: 2024-01-02T00:00:00Z\n---\n<p>Sunny</p>")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	if posts[0].BodyHTML != "<p>Sunny</p>" {
		t.Errorf("BodyHTML = %q", posts[0].BodyHTML)
	}
	if posts[0].Excerpt != "Sunny" {
		t.Errorf("Excerpt = %q", posts[0].Excerpt)
	}
}

func TestLanguageFromFrontMatterIsNormalized(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "lang", "post.md",
		"---\ndate: 2024-01-01T00:00:00Z\nlanguage: EL\n---\nΔοκιμαστικό κείμενο.")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	if posts[0].Language != "el" {
		t.Errorf("Language = %q", posts[0].Language)
	}
}

func TestLanguageIsDetectedWhenMissing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "detect", "post.md",
		"---\ndate: 2024-01-01T00:00:00Z\n---\nΑυτό είναι ένα παράδειγμα ελληνικού κειμένου για την ανίχνευση γλώσσας.")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	if posts[0].Language != "el" {
		t.Errorf("Language = %q", posts[0].Language)
	}
}

func TestShortContentFallsBackToDefaultLanguage(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "fallback", "post.md", "---\ndate: 2024-01-01T00:00:00Z\n---\nHi!")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	if posts[0].Language != "en" {
		t.Errorf("Language = %q", posts[0].Language)
	}
}

func TestRejectsTraversingAttachedPath(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "escape", "post.md",
		"---\ndate: 2024-01-01T00:00:00Z\nattached: [../secret.txt]\n---\n")

	_, err := DiscoverPosts(root, models.NewConfig())
	if err == nil || !strings.Contains(err.Error(), "must not traverse upward") {
		t.Errorf("err = %v", err)
	}
}

func TestPostsSortedByDateThenSlug(t *testing.T) {
	root := filepath.Join(t.TempDir(), "posts")
	writePost(t, root, "bravo", "post.md", "---\ndate: 2024-01-02T00:00:00Z\n---\n")
	writePost(t, root, "alpha", "post.md", "---\ndate: 2024-01-02T00:00:00Z\n---\n")
	writePost(t, root, "old", "post.md", "---\ndate: 2023-06-01T00:00:00Z\n---\n")

	posts, err := DiscoverPosts(root, models.NewConfig())
	if err != nil {
		t.Fatalf("DiscoverPosts: %v", err)
	}
	got := []string{posts[0].Slug, posts[1].Slug, posts[2].Slug}
	want := []string{"old", "alpha", "bravo"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if posts[2].Date.Before(posts[0].Date) {
		t.Error("posts must be ascending by date")
	}
}
