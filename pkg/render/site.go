// Package render drives the incremental render pipeline: posts,
// listings, feeds, the search index and static assets, all gated by
// content-addressed cache rows under .bckt/cache.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/WaylonWalker/bckt-go/pkg/cachestore"
	"github.com/WaylonWalker/bckt-go/pkg/config"
	"github.com/WaylonWalker/bckt-go/pkg/digest"
	"github.com/WaylonWalker/bckt-go/pkg/models"
	"github.com/WaylonWalker/bckt-go/pkg/search"
	"github.com/WaylonWalker/bckt-go/pkg/templates"
)

// Stats aggregates the counters reported on the [SUMMARY] line.
type Stats struct {
	PostsRendered     int
	PostsSkipped      int
	PagesRendered     int
	SearchDocuments   int
	StaticAssetsCount int
	ThemeAssetsCount  int
}

// Site renders a site rooted at root according to the plan. The first
// fatal error aborts the run; partial outputs are repaired by the next
// full run.
func Site(root string, plan models.RenderPlan) error {
	started := time.Now()
	var stats Stats

	configPath := filepath.Join(root, "bckt.yaml")
	cfg, configRaw, err := config.LoadWithRaw(configPath)
	if err != nil {
		return err
	}

	htmlRoot := filepath.Join(root, "html")
	if err := os.MkdirAll(htmlRoot, 0o755); err != nil {
		return fmt.Errorf("failed to ensure html directory exists: %w", err)
	}

	store, err := cachestore.Open(root)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := templates.NewEngine(cfg)
	templatesDigest, err := engine.LoadDir(filepath.Join(root, "templates"))
	if err != nil {
		return err
	}

	siteInputsHash := digest.SiteInputs(configRaw, templatesDigest)
	storedSiteHash, hasSiteHash, err := store.GetString(cachestore.SiteInputsKey)
	if err != nil {
		return err
	}
	siteChanged := !hasSiteHash || storedSiteHash != siteInputsHash

	effectiveMode := plan.Mode
	if effectiveMode == models.ModeChanged && siteChanged {
		logStatus(plan.Verbose, "MODE", "Config or templates changed; forcing full rebuild")
		effectiveMode = models.ModeFull
	}
	logStatus(plan.Verbose, "MODE", "Executing "+effectiveMode.String()+" rebuild")

	var posts []*models.Post
	if plan.Posts {
		logStatus(plan.Verbose, "STEP", "Rendering posts")
		var rendered, skipped int
		posts, rendered, skipped, err = RenderPosts(root, htmlRoot, cfg, engine, store, effectiveMode, plan.Verbose)
		if err != nil {
			return err
		}
		stats.PostsRendered = rendered
		stats.PostsSkipped = skipped
		logStatus(plan.Verbose, "STEP", fmt.Sprintf("Processed %d posts", len(posts)))
	} else {
		logStatus(plan.Verbose, "STEP", "Skipping post rendering")
	}

	if plan.Posts {
		logStatus(plan.Verbose, "STEP", "Rendering indexes and feeds")
		if err := RenderHomepage(posts, htmlRoot, cfg, engine, store, effectiveMode, plan.Verbose); err != nil {
			return err
		}
		if err := RenderTagIndexes(posts, htmlRoot, cfg, engine, store, effectiveMode, plan.Verbose); err != nil {
			return err
		}
		if err := RenderArchives(posts, htmlRoot, cfg, engine, store, effectiveMode, plan.Verbose); err != nil {
			return err
		}
		if err := RenderFeeds(posts, htmlRoot, cfg, engine); err != nil {
			return err
		}

		artifact, err := search.BuildIndex(cfg, posts)
		if err != nil {
			return err
		}
		stats.SearchDocuments = artifact.DocumentCount

		searchPath := search.ResolveAssetPath(htmlRoot, cfg.Search.AssetPath)
		cachedSearchHash, _, err := store.GetString(cachestore.SearchIndexKey)
		if err != nil {
			return err
		}
		_, statErr := os.Stat(searchPath)
		if cachedSearchHash != artifact.Digest || statErr != nil {
			if err := os.MkdirAll(filepath.Dir(searchPath), 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", filepath.Dir(searchPath), err)
			}
			if err := os.WriteFile(searchPath, artifact.Bytes, 0o644); err != nil {
				return fmt.Errorf("failed to write search index to %s: %w", searchPath, err)
			}
			logStatus(plan.Verbose, "SEARCH", fmt.Sprintf("Updated search index (%d documents)", artifact.DocumentCount))
		} else {
			logStatus(plan.Verbose, "SEARCH", "Search index unchanged")
		}

		if err := store.InsertString(cachestore.SearchIndexKey, artifact.Digest); err != nil {
			return err
		}
		if err := store.InsertString(cachestore.SiteInputsKey, siteInputsHash); err != nil {
			return err
		}
	}

	pagesRendered, err := RenderPages(root, htmlRoot, engine, plan.Verbose)
	if err != nil {
		return err
	}
	stats.PagesRendered = pagesRendered

	if plan.StaticAssets {
		if err := renderStaticAssets(root, htmlRoot, cfg, store, effectiveMode, plan.Verbose, &stats); err != nil {
			return err
		}
	} else {
		logStatus(plan.Verbose, "STATIC", "Skipping static assets")
	}

	if err := store.Flush(); err != nil {
		return err
	}

	logStatus(plan.Verbose, "DONE", "Render complete")

	totalPosts := stats.PostsRendered + stats.PostsSkipped
	fmt.Printf("[SUMMARY] posts rendered: %d/%d (skipped %d); pages: %d; search docs: %d; static assets copied: %d; theme assets copied: %d; elapsed: %s\n",
		stats.PostsRendered, totalPosts, stats.PostsSkipped,
		stats.PagesRendered, stats.SearchDocuments,
		stats.StaticAssetsCount, stats.ThemeAssetsCount,
		time.Since(started).Round(10*time.Millisecond))

	return nil
}

func renderStaticAssets(root, htmlRoot string, cfg *models.Config, store *cachestore.Store, mode models.BuildMode, verbose bool, stats *Stats) error {
	staticHash, err := StaticDigest(root)
	if err != nil {
		return err
	}
	storedStaticHash, _, err := store.GetString(cachestore.StaticHashKey)
	if err != nil {
		return err
	}

	if mode == models.ModeFull || storedStaticHash != staticHash {
		logStatus(verbose, "STATIC", "Copying static assets")
		copied, err := CopyStaticAssets(root, htmlRoot)
		if err != nil {
			return err
		}
		stats.StaticAssetsCount = copied
	} else {
		logStatus(verbose, "STATIC", "Static assets unchanged")
	}
	if err := store.InsertString(cachestore.StaticHashKey, staticHash); err != nil {
		return err
	}

	if cfg.Theme == "" {
		return nil
	}

	themeHash, err := ThemeAssetDigest(root, cfg.Theme)
	if err != nil {
		return err
	}
	storedThemeHash, _, err := store.GetString(cachestore.ThemeAssetHashKey)
	if err != nil {
		return err
	}

	if mode == models.ModeFull || storedThemeHash != themeHash {
		copied, hadAssets, err := CopyThemeAssets(root, htmlRoot, cfg.Theme)
		if err != nil {
			return err
		}
		if hadAssets {
			stats.ThemeAssetsCount = copied
			logStatus(verbose, "THEME", fmt.Sprintf("Copied %d theme asset(s) for %s", copied, cfg.Theme))
		} else {
			logStatus(verbose, "THEME", fmt.Sprintf("Theme %s has no assets directory", cfg.Theme))
		}
	} else {
		logStatus(verbose, "THEME", "Theme assets unchanged")
	}

	return store.InsertString(cachestore.ThemeAssetHashKey, themeHash)
}
