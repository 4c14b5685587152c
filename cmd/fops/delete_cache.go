// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fops-cli/internal/issue"
	"fops-cli/internal/prompt"
	"fops-cli/internal/termio"
)

var (
	// deleteCacheYes skips the confirmation prompt
	deleteCacheYes bool
	// deleteCacheDryRun reports without deleting
	deleteCacheDryRun bool
)

// deleteCacheCmd sweeps cache artifacts under an explicit directory.
var deleteCacheCmd = &cobra.Command{
	Use:   "delete-cache <directory>",
	Short: "Delete cache artifacts under a directory",
	Long: `Delete known build/test cache artifacts under the given directory.

Same sweep as 'clear-cache', but against an explicit directory and with a
confirmation prompt first.

Example:
  fops delete-cache .`,
	Args: cobra.ExactArgs(1),
	RunE: runDeleteCache,
}

func init() {
	deleteCacheCmd.Flags().BoolVar(&deleteCacheYes, "yes", false, "delete without asking for confirmation")
	deleteCacheCmd.Flags().BoolVar(&deleteCacheDryRun, "dry-run", false, "report what would be deleted without deleting")

	rootCmd.AddCommand(deleteCacheCmd)
}

func runDeleteCache(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return failCommand(cmd, ExitInvalidInput, fmt.Sprintf("Directory not found: %s", args[0]), nil)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return failCommand(cmd, ExitInvalidInput, fmt.Sprintf("Directory not found: %s", dir), nil)
	}
	if !info.IsDir() {
		return failCommand(cmd, ExitInvalidInput, fmt.Sprintf("Not a directory: %s", dir), nil)
	}

	if !deleteCacheYes && !deleteCacheDryRun {
		if !termio.IsInteractive(os.Stdin) {
			return failCommand(cmd, ExitFailure,
				"Refusing to delete without confirmation (stdin is not a terminal); pass --yes.", nil)
		}
		ok, err := prompt.Confirm(os.Stdin, cmd.OutOrStdout(),
			fmt.Sprintf("Delete cache artifacts under %s?", dir), prompt.DefaultNo)
		if err != nil {
			return failCommand(cmd, ExitFailure, "Failed to delete cache.", err)
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	sweeper := newSweeper()
	sweeper.DryRun = deleteCacheDryRun

	report, err := sweeper.Sweep(dir)
	if err != nil {
		return failCommand(cmd, ExitFailure, "Failed to delete cache.",
			issue.WrapWithOperation(err, "sweep "+dir))
	}

	if deleteCacheDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries would be deleted.\n",
			SubtitleStyle.Render("Dry run:"), report.Total())
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Done.")+
		fmt.Sprintf(" %d entries deleted.", report.Total()))
	return nil
}
