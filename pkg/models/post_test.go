package models

import (
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Multi   Spaces  ", "multi-spaces"},
		{"Custom Slug", "custom-slug"},
		{"already-good", "already-good"},
		{"CamelCase99", "camelcase99"},
		{"!!!", ""},
		{"--trim--", "trim"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTagSlugFallsBackToUntagged(t *testing.T) {
	if got := TagSlug("***"); got != "untagged" {
		t.Errorf("TagSlug(***) = %q, want untagged", got)
	}
	if got := TagSlug("Rust Lang"); got != "rust-lang" {
		t.Errorf("TagSlug = %q, want rust-lang", got)
	}
}

func TestBuildPermalink(t *testing.T) {
	date := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	if got := BuildPermalink(date, "hello-world"); got != "/2024/02/01/hello-world/" {
		t.Errorf("BuildPermalink = %q", got)
	}
}

func TestPostKey(t *testing.T) {
	date := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	post := &Post{Slug: "hello", Date: date}
	want := "1706788800-hello"
	if got := post.Key(); got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"https://example.com", "/", "https://example.com/"},
		{"https://example.com/blog", "/rss.xml", "https://example.com/blog/rss.xml"},
		{"https://example.com/", "/page/2/", "https://example.com/page/2/"},
	}
	for _, tt := range tests {
		if got := AbsoluteURL(tt.base, tt.path); got != tt.want {
			t.Errorf("AbsoluteURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
