package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/WaylonWalker/bckt-go/pkg/cachestore"
	"github.com/WaylonWalker/bckt-go/pkg/content"
	"github.com/WaylonWalker/bckt-go/pkg/digest"
	"github.com/WaylonWalker/bckt-go/pkg/models"
	"github.com/WaylonWalker/bckt-go/pkg/templates"
)

// RenderPosts discovers, digests and emits every post, then reclaims
// cache rows whose post no longer exists. It returns the ascending
// (date, slug) post list plus rendered/skipped counts.
func RenderPosts(root, htmlRoot string, cfg *models.Config, engine *templates.Engine, store *cachestore.Store, mode models.BuildMode, verbose bool) ([]*models.Post, int, int, error) {
	posts, err := content.DiscoverPosts(filepath.Join(root, "posts"), cfg)
	if err != nil {
		return nil, 0, 0, err
	}

	liveKeys := make(map[string]bool, len(posts))
	rendered := 0
	skipped := 0

	for _, post := range posts {
		cacheKey := cachestore.PostHashPrefix + post.Permalink
		liveKeys[cacheKey] = true

		postDigest, err := digest.Post(post.ContentPath, post.SourceDir, post.Attached)
		if err != nil {
			return nil, 0, 0, err
		}

		cached, ok, err := store.GetString(cacheKey)
		if err != nil {
			return nil, 0, 0, err
		}

		needsRender := mode == models.ModeFull || !ok || cached != postDigest
		if needsRender {
			if err := renderPost(htmlRoot, cfg, engine, post, verbose); err != nil {
				return nil, 0, 0, err
			}
			rendered++
			logStatus(verbose, "RENDER", "Rendered post "+post.Permalink)
		} else {
			skipped++
			logStatus(verbose, "SKIP", "Post "+post.Permalink+" unchanged")
		}

		if err := store.InsertString(cacheKey, postDigest); err != nil {
			return nil, 0, 0, err
		}
	}

	if err := cleanupPostHashes(store, liveKeys); err != nil {
		return nil, 0, 0, err
	}

	return posts, rendered, skipped, nil
}

func renderPost(htmlRoot string, cfg *models.Config, engine *templates.Engine, post *models.Post, verbose bool) error {
	renderTarget := filepath.Join(htmlRoot, filepath.FromSlash(strings.Trim(post.Permalink, "/")))
	if err := os.MkdirAll(renderTarget, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", renderTarget, err)
	}

	templateName := "post.html"
	if post.Type != "" {
		perType := "post-" + post.Type + ".html"
		if engine.Has(perType) {
			templateName = perType
		} else {
			logStatus(verbose, "WARN", fmt.Sprintf("%s: missing %s; using post.html", post.Slug, perType))
		}
	}

	ctx := map[string]interface{}{"post": buildPostContext(cfg, post)}
	scope := "rendering post " + post.Slug
	renderedHTML, err := engine.Render(templateName, ctx, scope)
	if err != nil {
		return err
	}

	outputPath := filepath.Join(renderTarget, "index.html")
	if err := os.WriteFile(outputPath, []byte(renderedHTML), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	if err := copyPostAssets(post, renderTarget); err != nil {
		return fmt.Errorf("failed to copy assets for %s: %w", post.Slug, err)
	}
	return nil
}

// copyPostAssets mirrors every attached file into the post's output
// directory, preserving the relative layout. Absolute paths and missing
// assets are fatal.
func copyPostAssets(post *models.Post, targetDir string) error {
	seen := make(map[string]bool, len(post.Attached))
	for _, relative := range post.Attached {
		if strings.HasPrefix(relative, "/") || filepath.IsAbs(relative) {
			return fmt.Errorf("%s: asset path must be relative", relative)
		}
		if seen[relative] {
			continue
		}
		seen[relative] = true

		source := filepath.Join(post.SourceDir, filepath.FromSlash(relative))
		if _, err := os.Stat(source); err != nil {
			return fmt.Errorf("missing asset %s", source)
		}

		destination := filepath.Join(targetDir, filepath.FromSlash(relative))
		if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(destination), err)
		}
		if err := copyFile(source, destination); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer in.Close()

	out, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destination, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", source, destination, err)
	}
	return out.Close()
}

// cleanupPostHashes deletes every post: cache row without a live post.
func cleanupPostHashes(store *cachestore.Store, keep map[string]bool) error {
	entries, err := store.ScanPrefix(cachestore.PostHashPrefix)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !keep[entry.Key] {
			if err := store.Remove(entry.Key); err != nil {
				return err
			}
		}
	}
	return nil
}
