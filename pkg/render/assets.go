package render

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/WaylonWalker/bckt-go/pkg/digest"
)

// StaticDigest computes the content address of the skel/ tree. A missing
// directory digests to the empty hash.
func StaticDigest(root string) (string, error) {
	return digest.Tree(filepath.Join(root, "skel"), "")
}

// CopyStaticAssets mirrors skel/ into html/, returning the number of
// files copied. A missing skel/ is silent.
func CopyStaticAssets(root, htmlRoot string) (int, error) {
	return mirrorTree(filepath.Join(root, "skel"), htmlRoot)
}

// ThemeAssetDigest computes the content address of the active theme's
// assets tree, seeded with the theme name.
func ThemeAssetDigest(root, theme string) (string, error) {
	assetsDir, err := themeAssetsDir(root, theme)
	if err != nil {
		return "", err
	}
	if assetsDir == "" {
		h := digest.NewHasher()
		h.WriteString(theme)
		return h.HexSum(), nil
	}
	return digest.Tree(assetsDir, theme)
}

// CopyThemeAssets mirrors themes/<theme>/assets/ into html/assets/. The
// second result is false when the theme has no assets directory.
func CopyThemeAssets(root, htmlRoot, theme string) (int, bool, error) {
	assetsDir, err := themeAssetsDir(root, theme)
	if err != nil {
		return 0, false, err
	}
	if assetsDir == "" {
		return 0, false, nil
	}
	copied, err := mirrorTree(assetsDir, filepath.Join(htmlRoot, "assets"))
	return copied, err == nil, err
}

// themeAssetsDir validates the theme name (a single path segment) and
// resolves its assets directory; empty when the theme or its assets
// directory does not exist.
func themeAssetsDir(root, theme string) (string, error) {
	if theme == "" || strings.ContainsAny(theme, "/\\") || theme == "." || theme == ".." {
		return "", fmt.Errorf("invalid theme name %q", theme)
	}

	themeDir := filepath.Join(root, "themes", theme)
	if _, err := os.Stat(themeDir); err != nil {
		return "", nil
	}
	assetsDir := filepath.Join(themeDir, "assets")
	if _, err := os.Stat(assetsDir); err != nil {
		return "", nil
	}
	return assetsDir, nil
}

func mirrorTree(sourceDir, targetDir string) (int, error) {
	if _, err := os.Stat(sourceDir); err != nil {
		return 0, nil
	}

	copied := 0
	err := filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		relative, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", path, err)
		}
		destination := filepath.Join(targetDir, relative)
		if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(destination), err)
		}
		if err := copyFile(path, destination); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}
