package render

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/WaylonWalker/bckt-go/pkg/templates"
)

// RenderPages renders every pages/**/*.html file as a template string
// into the matching path under html/. Pages see the site globals but no
// post context.
func RenderPages(root, htmlRoot string, engine *templates.Engine, verbose bool) (int, error) {
	pagesDir := filepath.Join(root, "pages")
	if _, err := os.Stat(pagesDir); err != nil {
		return 0, nil
	}

	var files []string
	err := filepath.WalkDir(pagesDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(path), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", pagesDir, err)
	}
	sort.Strings(files)

	rendered := 0
	for _, path := range files {
		relative, err := filepath.Rel(pagesDir, path)
		if err != nil {
			return rendered, fmt.Errorf("failed to relativize page %s: %w", path, err)
		}
		name := filepath.ToSlash(relative)

		source, err := os.ReadFile(path)
		if err != nil {
			return rendered, fmt.Errorf("failed to read page template %s: %w", path, err)
		}

		output, err := engine.RenderString(name, string(source), "rendering standalone page "+name)
		if err != nil {
			return rendered, err
		}

		outputPath := filepath.Join(htmlRoot, relative)
		if err := writeOutputIfChanged(outputPath, output); err != nil {
			return rendered, err
		}
		logStatus(verbose, "PAGE", "Rendered "+name)
		rendered++
	}

	return rendered, nil
}
