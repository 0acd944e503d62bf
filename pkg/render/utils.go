package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// logStatus prints a labelled progress line when verbose output is on.
func logStatus(enabled bool, label, message string) {
	if enabled {
		fmt.Printf("[%s] %s\n", label, message)
	}
}

// normalizePath renders a path with forward slashes and no leading "./".
func normalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

func removeFileIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// removeDirIfEmpty removes a directory, ignoring missing or non-empty
// directories.
func removeDirIfEmpty(path string) error {
	err := os.Remove(path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	if entries, readErr := os.ReadDir(path); readErr == nil && len(entries) > 0 {
		return nil
	}
	return fmt.Errorf("failed to remove directory %s: %w", path, err)
}

func formatRFC3339(date time.Time) string {
	return date.Format(time.RFC3339)
}

func formatRFC2822(date time.Time) string {
	return date.Format(time.RFC1123Z)
}

// sanitizeCDATA escapes CDATA terminators inside feed bodies.
func sanitizeCDATA(value string) string {
	if !strings.Contains(value, "]]>") {
		return value
	}
	return strings.ReplaceAll(value, "]]>", "]]]><![CDATA[>")
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(value string) string {
	return xmlEscaper.Replace(value)
}
