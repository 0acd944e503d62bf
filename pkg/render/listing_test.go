package render

import (
	"testing"
	"time"

	"github.com/WaylonWalker/bckt-go/pkg/models"
)

func testPost(slug string, date string, tags ...string) *models.Post {
	parsed, err := time.Parse(time.RFC3339, date)
	if err != nil {
		panic(err)
	}
	return &models.Post{
		Slug:      slug,
		Date:      parsed,
		Tags:      tags,
		Permalink: models.BuildPermalink(parsed, slug),
		Extra:     map[string]interface{}{},
	}
}

func TestPaginationFor(t *testing.T) {
	tests := []struct {
		page, total int
		prev, next  string
	}{
		{1, 3, "", "/page/2/"},
		{2, 3, "/page/1/", "/"},
		{3, 3, "/page/2/", ""},
		{1, 1, "", ""},
		{1, 2, "", "/"},
		{2, 2, "/page/1/", ""},
		{2, 4, "/page/1/", "/page/3/"},
	}

	for _, tt := range tests {
		got := paginationFor(tt.page, tt.total)
		if got.Current != tt.page || got.Total != tt.total {
			t.Errorf("page %d/%d: current/total = %d/%d", tt.page, tt.total, got.Current, got.Total)
		}
		if got.Prev != tt.prev {
			t.Errorf("page %d/%d: prev = %q, want %q", tt.page, tt.total, got.Prev, tt.prev)
		}
		if got.Next != tt.next {
			t.Errorf("page %d/%d: next = %q, want %q", tt.page, tt.total, got.Next, tt.next)
		}
	}
}

func TestChunkPosts(t *testing.T) {
	posts := []*models.Post{
		testPost("a", "2024-01-01T00:00:00Z"),
		testPost("b", "2024-01-02T00:00:00Z"),
		testPost("c", "2024-01-03T00:00:00Z"),
	}

	chunks := chunkPosts(posts, 2)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	if len(chunks[0]) != 2 || len(chunks[1]) != 1 {
		t.Errorf("chunk sizes = %d, %d", len(chunks[0]), len(chunks[1]))
	}
	if chunks[1][0].Slug != "c" {
		t.Errorf("newest chunk holds %q", chunks[1][0].Slug)
	}
}

func TestCollectTagBuckets(t *testing.T) {
	posts := []*models.Post{
		testPost("a", "2024-01-01T00:00:00Z", "Rust Lang", "notes"),
		testPost("b", "2024-01-02T00:00:00Z", "rust lang"),
		testPost("c", "2024-01-03T00:00:00Z", " ", "***"),
	}

	buckets := collectTagBuckets(posts)
	if len(buckets) != 3 {
		t.Fatalf("buckets = %v", buckets)
	}

	rust, ok := buckets["rust-lang"]
	if !ok {
		t.Fatal("rust-lang bucket missing")
	}
	if rust.name != "Rust Lang" {
		t.Errorf("display name = %q", rust.name)
	}
	if len(rust.indices) != 2 || rust.indices[0] != 0 || rust.indices[1] != 1 {
		t.Errorf("indices = %v", rust.indices)
	}

	if _, ok := buckets["untagged"]; !ok {
		t.Error("unsluggable tags should land in untagged")
	}
	if _, ok := buckets["notes"]; !ok {
		t.Error("notes bucket missing")
	}
}

func TestTagDedupWithinPost(t *testing.T) {
	posts := []*models.Post{
		testPost("a", "2024-01-01T00:00:00Z", "Go", "go", "GO"),
	}
	buckets := collectTagBuckets(posts)
	if len(buckets["go"].indices) != 1 {
		t.Errorf("indices = %v", buckets["go"].indices)
	}
}
