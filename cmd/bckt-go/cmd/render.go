package cmd

import (
	"github.com/spf13/cobra"

	"github.com/WaylonWalker/bckt-go/pkg/models"
	"github.com/WaylonWalker/bckt-go/pkg/render"
)

var (
	// renderFull forces a full rebuild, ignoring cached digests.
	renderFull bool

	// renderPosts restricts the run to posts, listings, feeds and search.
	// Standalone pages render on every run.
	renderPosts bool

	// renderStatic restricts the run to static and theme assets.
	// Standalone pages render on every run.
	renderStatic bool

	// renderVerbose enables progress logging.
	renderVerbose bool
)

// renderCmd represents the render command.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the site into html/",
	Long: `Render generates the output tree from posts/, templates/, pages/,
skel/ and the active theme.

By default the run is incremental: outputs are only re-emitted when
their content digests changed, and outputs whose source disappeared are
cleaned up. A config or template change upgrades the run to a full
rebuild automatically.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}
		return render.Site(root, determinePlan())
	},
}

// determinePlan translates the command flags into a RenderPlan. With
// neither --posts nor --static the run produces both.
func determinePlan() models.RenderPlan {
	plan := models.RenderPlan{
		Posts:        renderPosts,
		StaticAssets: renderStatic,
		Mode:         models.ModeChanged,
		Verbose:      renderVerbose,
	}
	if !renderPosts && !renderStatic {
		plan.Posts = true
		plan.StaticAssets = true
	}
	if renderFull {
		plan.Mode = models.ModeFull
	}
	return plan
}

func init() {
	renderCmd.Flags().BoolVar(&renderFull, "full", false, "ignore cached digests and regenerate everything")
	renderCmd.Flags().BoolVar(&renderPosts, "posts", false, "render posts, listings, feeds and the search index")
	renderCmd.Flags().BoolVar(&renderStatic, "static", false, "copy static and theme assets")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "log progress for every step")
	rootCmd.AddCommand(renderCmd)
}
