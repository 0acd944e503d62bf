package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/WaylonWalker/bckt-go/pkg/models"
)

func writeTemplates(t *testing.T, extra map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"base.html":          "{% block content %}{% endblock %}",
		"post.html":          "{{ post.slug }}",
		"index.html":         "{% for p in posts %}{{ p.slug }}{% endfor %}",
		"tag.html":           "{{ tag }}",
		"archive_year.html":  "{{ year }}",
		"archive_month.html": "{{ year }}-{{ month }}",
		"rss.xml":            "{{ feed.title|safe }}",
	}
	for name, body := range extra {
		files[name] = body
	}

	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestEngine(t *testing.T, cfg *models.Config, extra map[string]string) *Engine {
	t.Helper()
	engine := NewEngine(cfg)
	if _, err := engine.LoadDir(writeTemplates(t, extra)); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	return engine
}

func TestGlobalsAvailableInTemplates(t *testing.T) {
	cfg := models.NewConfig()
	cfg.Title = "Bucket"
	cfg.BaseURL = "https://vrypan.net/blog/"

	engine := newTestEngine(t, cfg, map[string]string{
		"globals.html": "{{ config.title }}|{{ base_url }}|{{ base_path }}|{{ feed_url }}",
	})

	rendered, err := engine.Render("globals.html", nil, "test")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "Bucket|https://vrypan.net/blog|/blog|https://vrypan.net/blog/rss.xml"
	if rendered != want {
		t.Errorf("rendered = %q, want %q", rendered, want)
	}
}

func TestBasePathEmptyForRootURL(t *testing.T) {
	cfg := models.NewConfig()
	cfg.BaseURL = "https://vrypan.net/"
	engine := newTestEngine(t, cfg, map[string]string{"path.html": "[{{ base_path }}]"})

	rendered, err := engine.Render("path.html", nil, "test")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rendered != "[]" {
		t.Errorf("rendered = %q", rendered)
	}
}

func TestNowUsesConfigFormat(t *testing.T) {
	cfg := models.NewConfig()
	cfg.DateFormat = "2006"
	engine := newTestEngine(t, cfg, map[string]string{"when.html": "{{ now() }}"})

	rendered, err := engine.Render("when.html", nil, "test")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(rendered) != 4 {
		t.Errorf("rendered = %q", rendered)
	}
}

func TestNowAcceptsRFC3339Keyword(t *testing.T) {
	engine := newTestEngine(t, models.NewConfig(), map[string]string{"when.html": "{{ now('RFC3339') }}"})

	rendered, err := engine.Render("when.html", nil, "test")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(rendered, "T") || !strings.HasSuffix(rendered, "Z") {
		t.Errorf("rendered = %q", rendered)
	}
}

func TestFormatDateFilter(t *testing.T) {
	engine := newTestEngine(t, models.NewConfig(), map[string]string{
		"date.html": "{{ value|format_date:'%Y-%m-%d' }}",
	})

	rendered, err := engine.Render("date.html", map[string]interface{}{"value": "2025-10-01T12:08:00+02:00"}, "test")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rendered != "2025-10-01" {
		t.Errorf("rendered = %q", rendered)
	}
}

func TestFormatDateFilterRejectsBadInput(t *testing.T) {
	engine := newTestEngine(t, models.NewConfig(), map[string]string{
		"date.html": "{{ value|format_date:'%Y' }}",
	})

	_, err := engine.Render("date.html", map[string]interface{}{"value": "not-a-date"}, "test scope")
	if err == nil {
		t.Fatal("expected error")
	}
	renderErr, ok := err.(*RenderError)
	if !ok {
		t.Fatalf("expected *RenderError, got %T: %v", err, err)
	}
	if renderErr.Scope != "test scope" {
		t.Errorf("Scope = %q", renderErr.Scope)
	}
	if !strings.Contains(renderErr.Message, "RFC3339") {
		t.Errorf("Message = %q", renderErr.Message)
	}
}

func TestMissingRequiredTemplateFailsLoad(t *testing.T) {
	dir := writeTemplates(t, nil)
	if err := os.Remove(filepath.Join(dir, "rss.xml")); err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(models.NewConfig())
	if _, err := engine.LoadDir(dir); err == nil || !strings.Contains(err.Error(), "rss.xml template missing") {
		t.Errorf("err = %v", err)
	}
}

func TestTemplateInheritance(t *testing.T) {
	engine := newTestEngine(t, models.NewConfig(), map[string]string{
		"base.html":  "<main>{% block content %}{% endblock %}</main>",
		"child.html": "{% extends \"base.html\" %}{% block content %}hello{% endblock %}",
	})

	rendered, err := engine.Render("child.html", nil, "test")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rendered != "<main>hello</main>" {
		t.Errorf("rendered = %q", rendered)
	}
}

func TestDigestIsStableAndOrderIndependent(t *testing.T) {
	cfg := models.NewConfig()
	dir := writeTemplates(t, nil)

	first := NewEngine(cfg)
	digestA, err := first.LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	second := NewEngine(cfg)
	digestB, err := second.LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if digestA != digestB {
		t.Error("digest should be stable across loads")
	}

	if err := os.WriteFile(filepath.Join(dir, "base.html"), []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}
	third := NewEngine(cfg)
	digestC, err := third.LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if digestC == digestA {
		t.Error("digest should change when a template changes")
	}
}

func TestRenderStringUsesGlobals(t *testing.T) {
	cfg := models.NewConfig()
	cfg.Title = "Bucket"
	engine := newTestEngine(t, cfg, nil)

	rendered, err := engine.RenderString("about.html", "about {{ config.title }}", "test")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if rendered != "about Bucket" {
		t.Errorf("rendered = %q", rendered)
	}
}
