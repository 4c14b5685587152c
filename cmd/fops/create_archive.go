// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"fops-cli/internal/archive"
)

var (
	// archiveName is the bare output file name (timestamped when empty)
	archiveName string
	// archivePatterns are the inclusion globs (everything when empty)
	archivePatterns []string
	// archiveFormat overrides the configured default format
	archiveFormat string
)

// createArchiveCmd builds a deterministic archive of a directory.
var createArchiveCmd = &cobra.Command{
	Use:   "create-archive [directory]",
	Short: "Create a deterministic archive of a directory",
	Long: `Create an archive of a directory's contents in the current working
directory.

Entries are selected by glob patterns (everything by default), deduplicated,
and sorted by relative path, so identical inputs always produce identical
archive member ordering. Symlinks are copied as links; whether the final
archive preserves them depends on the format (tar.gz does, zip stores the
target's content).

Examples:
  fops create-archive
  fops create-archive ./myproject
  fops create-archive ./myproject --archive-name backup
  fops create-archive ./docs --patterns '*.md' --archive-format tar.gz`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreateArchive,
}

func init() {
	createArchiveCmd.Flags().StringVar(&archiveName, "archive-name", "", "archive name (default: <UTC timestamp>_<directory name>)")
	createArchiveCmd.Flags().StringArrayVar(&archivePatterns, "patterns", nil, "file patterns to include (repeatable)")
	createArchiveCmd.Flags().StringVar(&archiveFormat, "archive-format", "", "archive format: zip or tar.gz (default from config, zip out of the box)")

	rootCmd.AddCommand(createArchiveCmd)
}

func runCreateArchive(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return failCommand(cmd, ExitInvalidInput, fmt.Sprintf("Directory not found: %s", dir), nil)
	}

	// Directory problems get their own exit code, checked up front.
	info, err := os.Stat(absDir)
	if err != nil {
		return failCommand(cmd, ExitInvalidInput, fmt.Sprintf("Directory not found: %s", absDir), nil)
	}
	if !info.IsDir() {
		return failCommand(cmd, ExitInvalidInput, fmt.Sprintf("Not a directory: %s", absDir), nil)
	}

	format := archiveFormat
	if format == "" {
		format = cfg.Archive.DefaultFormat
	}

	builder := archive.NewBuilder()
	builder.Logger = log.Default()

	path, err := builder.Create(archive.Options{
		Dir:      absDir,
		Name:     archiveName,
		Patterns: archivePatterns,
		Format:   format,
	})
	if err != nil {
		return failCommand(cmd, ExitFailure, "Failed to create archive.", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Archive created")+" - "+path)
	return nil
}
