// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fops-cli/internal/cache"
)

// clearCacheCmd sweeps cache artifacts under the current working directory.
var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Delete cache artifacts under the current directory",
	Long: `Delete known build/test cache artifacts under the current working
directory: cache directories (__pycache__, .pytest_cache, ...) are removed
recursively and cache files (*.pyc, .coverage, ...) are unlinked. Paths
inside virtualenvs are left alone.

The directory names and file patterns can be overridden in the config file.`,
	Args: cobra.NoArgs,
	RunE: runClearCache,
}

func init() {
	rootCmd.AddCommand(clearCacheCmd)
}

func runClearCache(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return failCommand(cmd, ExitFailure, "Failed to clear cache.", err)
	}

	if _, err := newSweeper().Sweep(cwd); err != nil {
		return failCommand(cmd, ExitFailure, "Failed to clear cache.", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Cache cleared."))
	return nil
}

// newSweeper builds a cache sweeper from the effective configuration.
func newSweeper() *cache.Sweeper {
	s := cache.New()
	if len(cfg.Cache.Directories) > 0 {
		s.Directories = cfg.Cache.Directories
	}
	if len(cfg.Cache.FilePatterns) > 0 {
		s.FilePatterns = cfg.Cache.FilePatterns
	}
	return s
}
