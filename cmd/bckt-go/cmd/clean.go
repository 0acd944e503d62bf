package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cleanCmd removes the generated output tree and the render cache.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove html/ and the render cache",
	RunE: func(_ *cobra.Command, _ []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}

		htmlRoot := filepath.Join(root, "html")
		removedHTML, err := removePath(htmlRoot)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(htmlRoot, 0o755); err != nil {
			return fmt.Errorf("failed to recreate %s: %w", htmlRoot, err)
		}

		removedCache, err := removePath(filepath.Join(root, ".bckt"))
		if err != nil {
			return err
		}

		switch {
		case removedHTML && removedCache:
			fmt.Println("Removed html output and cache state.")
		case removedHTML:
			fmt.Println("Removed html output and created a fresh html/ directory.")
		case removedCache:
			fmt.Println("No html/ directory found; cleared cached state.")
		default:
			fmt.Println("Created empty html/ directory (no cached state found).")
		}
		return nil
	},
}

func removePath(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return true, nil
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
