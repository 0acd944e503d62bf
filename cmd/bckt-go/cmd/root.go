// Package cmd provides the CLI commands for bckt-go.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootDir is the site root specified via --root; defaults to the
// current directory.
var rootDir string

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "bckt-go",
	Short: "Static site generator toolkit",
	Long: `Bckt-go is an incremental static site generator.

It loads dated, front-mattered posts from posts/, renders them through
the templates/ tree and keeps html/ consistent with the inputs across
repeated runs, including deletions.

Example usage:
  bckt-go render            # Incremental render into html/
  bckt-go render --full     # Ignore cached digests and re-emit everything
  bckt-go clean             # Remove html/ and the render cache`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "site root directory (default: current directory)")
}

// Execute runs the root command. Any fatal error prints a single
// Error: line on stderr and exits with code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveRoot returns the effective site root.
func resolveRoot() (string, error) {
	if rootDir != "" {
		return rootDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve current directory: %w", err)
	}
	return cwd, nil
}
