// Package templates hosts the pongo2 template environment: it registers
// every file under templates/, exposes the site globals and renders with
// structured errors.
package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/WaylonWalker/bckt-go/pkg/config"
	"github.com/WaylonWalker/bckt-go/pkg/digest"
	"github.com/WaylonWalker/bckt-go/pkg/models"
)

// RequiredTemplates must exist under templates/ for a site to render.
var RequiredTemplates = []string{
	"base.html",
	"post.html",
	"index.html",
	"tag.html",
	"archive_year.html",
	"archive_month.html",
	"rss.xml",
}

var errFormatDateInput = errors.New("format_date filter expects a string input")

func errFormatDateValue(raw string, err error) error {
	return fmt.Errorf("format_date filter requires RFC3339 datetime strings (e.g. post.date_iso); got %q: %v", raw, err)
}

// RenderError is a template failure annotated with the template that
// actually raised, the line when available, a kind tag and a message.
type RenderError struct {
	Scope    string
	Template string
	Line     int
	Kind     string
	Message  string
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: template '%s'", e.Scope, e.Template)
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	fmt.Fprintf(&b, "\nkind: %s", e.Kind)
	fmt.Fprintf(&b, "\nmessage: %s", e.Message)
	return b.String()
}

// Engine renders the registered template set with the site globals.
type Engine struct {
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	globals   pongo2.Context
	digestHex string
}

// NewEngine creates an engine for the given configuration. Globals:
// config, base_url (trailing slash stripped), base_path, feed_url, and
// the now(format?) function.
func NewEngine(cfg *models.Config) *Engine {
	registerFilters()

	baseURL := normalizeBaseURL(cfg.BaseURL)
	defaultFormat := cfg.DateFormat

	globals := pongo2.Context{
		"config":    cfg.TemplateContext(),
		"base_url":  baseURL,
		"base_path": extractBasePath(cfg.BaseURL),
		"feed_url":  models.AbsoluteURL(cfg.BaseURL, "/rss.xml"),
		"now": func(args ...*pongo2.Value) *pongo2.Value {
			format := defaultFormat
			if len(args) > 0 && args[0].String() != "" {
				format = args[0].String()
			}
			if strings.EqualFold(format, config.RFC3339Keyword) {
				return pongo2.AsValue(time.Now().UTC().Format(time.RFC3339))
			}
			return pongo2.AsValue(time.Now().UTC().Format(format))
		},
	}

	return &Engine{
		templates: make(map[string]*pongo2.Template),
		globals:   globals,
	}
}

// LoadDir registers every file under dir by its forward-slashed relative
// path and returns the templates digest: the hash of the ordered
// (relative-name, file-bytes) stream in sorted path order.
func (e *Engine) LoadDir(dir string) (string, error) {
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("templates directory %s not found", dir)
	}

	e.set = pongo2.NewSet("bckt", pongo2.MustNewLocalFileSystemLoader(dir))

	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk templates directory %s: %w", dir, err)
	}
	sort.Strings(files)

	hasher := digest.NewHasher()
	for _, path := range files {
		relative, err := filepath.Rel(dir, path)
		if err != nil {
			return "", fmt.Errorf("failed to relativize template %s: %w", path, err)
		}
		name := filepath.ToSlash(relative)

		body, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template %s: %w", path, err)
		}
		hasher.WriteString(name)
		hasher.WriteBytes(body)

		tpl, err := e.set.FromFile(name)
		if err != nil {
			return "", fmt.Errorf("failed to register template %s: %w", name, err)
		}
		e.templates[name] = tpl
	}

	for _, required := range RequiredTemplates {
		if _, ok := e.templates[required]; !ok {
			return "", fmt.Errorf("%s template missing", required)
		}
	}

	e.digestHex = hasher.HexSum()
	return e.digestHex, nil
}

// Digest returns the templates digest computed by LoadDir.
func (e *Engine) Digest() string {
	return e.digestHex
}

// Has reports whether a template is registered.
func (e *Engine) Has(name string) bool {
	_, ok := e.templates[name]
	return ok
}

// Render executes a registered template with the site globals plus ctx.
// The scope names the operation for error reporting.
func (e *Engine) Render(name string, ctx map[string]interface{}, scope string) (string, error) {
	tpl, ok := e.templates[name]
	if !ok {
		return "", fmt.Errorf("%s template missing", name)
	}
	return e.execute(tpl, name, ctx, scope)
}

// RenderString renders an unregistered template source (standalone
// pages) with the site globals. Includes and extends resolve against the
// loaded templates directory.
func (e *Engine) RenderString(name, source string, scope string) (string, error) {
	if e.set == nil {
		return "", fmt.Errorf("template set not loaded")
	}
	tpl, err := e.set.FromBytes([]byte(source))
	if err != nil {
		return "", describeError(scope, name, err)
	}
	return e.execute(tpl, name, nil, scope)
}

func (e *Engine) execute(tpl *pongo2.Template, name string, ctx map[string]interface{}, scope string) (string, error) {
	merged := pongo2.Context{}
	merged.Update(e.globals)
	if ctx != nil {
		merged.Update(pongo2.Context(ctx))
	}

	rendered, err := tpl.Execute(merged)
	if err != nil {
		return "", describeError(scope, name, err)
	}
	return rendered, nil
}

// describeError converts a pongo2 failure into a RenderError carrying
// the raising template name and line number when available.
func describeError(scope, templateName string, err error) error {
	var perr *pongo2.Error
	if errors.As(err, &perr) {
		name := templateName
		if perr.Filename != "" && perr.Filename != "<string>" {
			name = filepath.Base(perr.Filename)
		}
		message := perr.Error()
		if perr.OrigError != nil {
			message = perr.OrigError.Error()
		}
		return &RenderError{
			Scope:    scope,
			Template: name,
			Line:     perr.Line,
			Kind:     perr.Sender,
			Message:  message,
		}
	}
	return &RenderError{
		Scope:    scope,
		Template: templateName,
		Kind:     "render",
		Message:  err.Error(),
	}
}

func normalizeBaseURL(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	return strings.TrimRight(trimmed, "/")
}

// extractBasePath returns the path component of base_url with the
// trailing slash stripped; empty for a bare host.
func extractBasePath(baseURL string) string {
	idx := strings.Index(baseURL, "://")
	if idx < 0 {
		return strings.TrimRight(baseURL, "/")
	}
	afterScheme := baseURL[idx+3:]
	slash := strings.Index(afterScheme, "/")
	if slash < 0 {
		return ""
	}
	return strings.TrimRight(afterScheme[slash:], "/")
}
