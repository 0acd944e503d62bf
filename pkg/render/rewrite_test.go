package render

import (
	"strings"
	"testing"
)

const testPermalink = "/2024/01/01/media/"
const testBaseURL = "https://example.com"

func TestRewriteLeavesSafePrefixesUntouched(t *testing.T) {
	attached := []string{"pic.png"}
	values := []string{
		"/rooted/pic.png",
		"#fragment",
		"//cdn.example.com/pic.png",
		"http://example.com/pic.png",
		"https://example.com/pic.png",
		"mailto:hi@example.com",
		"tel:+30123",
		"data:image/png;base64,AAAA",
		"javascript:alert(1)",
	}

	for _, value := range values {
		body := `<a href="` + value + `">x</a>`
		got := RewriteAttachedURLs(body, testPermalink, testBaseURL, attached, false)
		if got != body {
			t.Errorf("value %q was rewritten: %q", value, got)
		}
	}
}

func TestRewriteRelativeAttachment(t *testing.T) {
	attached := []string{"images/pic.png", "notes.txt"}
	body := `<img src="./images/pic.png"> <a href='notes.txt?dl=1#top'>n</a>`

	got := RewriteAttachedURLs(body, testPermalink, testBaseURL, attached, false)
	if !strings.Contains(got, `src="images/pic.png"`) {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, `href='notes.txt?dl=1#top'`) {
		t.Errorf("got %q", got)
	}
}

func TestRewriteAbsoluteForFeeds(t *testing.T) {
	attached := []string{"images/pic.png"}
	body := `<img src="images/pic.png">`

	got := RewriteAttachedURLs(body, testPermalink, testBaseURL, attached, true)
	want := `<img src="https://example.com/2024/01/01/media/images/pic.png">`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewriteAbsolutePreservesFragmentSuffix(t *testing.T) {
	attached := []string{"notes.txt"}
	body := `<a href="notes.txt#sec">n</a>`

	got := RewriteAttachedURLs(body, testPermalink, testBaseURL, attached, true)
	want := `<a href="https://example.com/2024/01/01/media/notes.txt#sec">n</a>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewriteIgnoresUnattachedValues(t *testing.T) {
	attached := []string{"pic.png"}
	body := `<img src="other.png">`
	if got := RewriteAttachedURLs(body, testPermalink, testBaseURL, attached, false); got != body {
		t.Errorf("got %q", got)
	}
}

func TestRewriteIgnoresSrcsetAndTextContent(t *testing.T) {
	attached := []string{"pic.png"}
	body := `<img srcset="pic.png 2x"> see src= pic.png in text`
	if got := RewriteAttachedURLs(body, testPermalink, testBaseURL, attached, false); got != body {
		t.Errorf("got %q", got)
	}
}

func TestRewriteIgnoresDataAttributes(t *testing.T) {
	attached := []string{"pic.png"}
	body := `<img data-src="pic.png" src="pic.png">`
	got := RewriteAttachedURLs(body, testPermalink, testBaseURL, attached, true)
	want := `<img data-src="pic.png" src="https://example.com/2024/01/01/media/pic.png">`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewriteNoAttachmentsIsIdentity(t *testing.T) {
	body := `<img src="pic.png">`
	if got := RewriteAttachedURLs(body, testPermalink, testBaseURL, nil, false); got != body {
		t.Errorf("got %q", got)
	}
}
