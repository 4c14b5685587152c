// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for fops.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"fops-cli/internal/config"
	"fops-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging
	verbose bool
	// quiet suppresses info logging
	quiet bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfg is the effective configuration, loaded before any command runs.
	cfg = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "fops",
		Short: "File operations for developer workstations",
		Long: TitleStyle.Render("fops") + SubtitleStyle.Render(" - file operations for developer workstations") + `

fops bundles the repetitive filesystem chores of a project checkout:
sweeping build/test cache artifacts, building deterministic archives
of a directory, and pruning stale git branches.

` + SubtitleStyle.Render("Examples:") + `
  fops clear-cache               Sweep cache artifacts under the cwd
  fops delete-cache ./proj       Sweep cache artifacts under ./proj
  fops create-archive ./proj     Archive ./proj into the cwd
  fops prune-branches --dry-run  Show which branches would be deleted`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Cobra flag groups do not cover inherited persistent flags,
			// so the exclusivity check lives here.
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet cannot be used together")
			}
			configureLogging()
			return nil
		},
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress info logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <platform config dir>/fops/config.toml)")

	// Predeclared so the version flag gets the -V shorthand instead of
	// cobra's default.
	rootCmd.Flags().BoolP("version", "V", false, "show app version and exit")
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file and FOPS_* environment variables.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	loaded, err := config.Load()
	if err != nil {
		// Config problems are surfaced but never fatal; defaults apply.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return
	}
	cfg = loaded

	// Apply verbosity from config when not set via flags.
	if !verbose && !quiet {
		verbose = cfg.UI.Verbose
		quiet = cfg.UI.Quiet
	}
}

// configureLogging maps the verbosity flags onto the default logger:
// debug when verbose, warnings and above when quiet, info otherwise.
func configureLogging() {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)

	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// render their suggestions; verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// failCommand prints a styled message plus error detail to stderr and
// returns an ExitError with the given code, silencing cobra's own output.
func failCommand(cmd *cobra.Command, code int, label string, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render(label)+" "+formatErrorForDisplay(err, verbose))
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render(label))
	}
	return &ExitError{Code: code, Err: err}
}
