// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fops-cli/internal/gitx"
	"fops-cli/internal/issue"
	"fops-cli/internal/prompt"
	"fops-cli/internal/termio"
)

var (
	// pruneRemote is the remote whose tracking refs are pruned
	pruneRemote string
	// pruneProtected overrides the configured protected branch set
	pruneProtected []string
	// pruneDryRun shows the plan without deleting
	pruneDryRun bool
	// pruneForce deletes unmerged local branches too
	pruneForce bool
	// pruneYes skips the confirmation prompt
	pruneYes bool
)

// pruneBranchesCmd deletes local branches and remote-tracking refs outside
// the protected set.
var pruneBranchesCmd = &cobra.Command{
	Use:   "prune-branches",
	Short: "Delete git branches outside the protected set",
	Long: `Delete local branches and remote-tracking refs that are not protected.

Protected are the configured branch names (main, master, develop out of the
box) plus whichever branch is currently checked out. Remote-tracking refs
are deleted locally only; the remote itself is never contacted.

A branch that fails to delete (e.g. unmerged without --force) is reported
and the pass continues with the next one.

Examples:
  fops prune-branches --dry-run
  fops prune-branches --remote upstream
  fops prune-branches --protected main --protected release --yes`,
	Args: cobra.NoArgs,
	RunE: runPruneBranches,
}

func init() {
	pruneBranchesCmd.Flags().StringVar(&pruneRemote, "remote", "", "remote whose tracking refs are pruned (default from config, origin out of the box)")
	pruneBranchesCmd.Flags().StringArrayVar(&pruneProtected, "protected", nil, "protected branch name (repeatable, overrides config)")
	pruneBranchesCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "show what would be deleted without deleting")
	pruneBranchesCmd.Flags().BoolVar(&pruneForce, "force", false, "delete unmerged local branches too")
	pruneBranchesCmd.Flags().BoolVar(&pruneYes, "yes", false, "delete without asking for confirmation")

	rootCmd.AddCommand(pruneBranchesCmd)
}

func runPruneBranches(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()

	remote := pruneRemote
	if remote == "" {
		remote = cfg.Git.Remote
	}

	pruner := gitx.NewPruner(gitx.NewCLIClient(""))
	pruner.Force = pruneForce
	if len(pruneProtected) > 0 {
		pruner.Protected = pruneProtected
	} else if len(cfg.Git.ProtectedBranches) > 0 {
		pruner.Protected = cfg.Git.ProtectedBranches
	}

	plan, err := pruner.Plan(ctx, remote)
	if err != nil {
		return failCommand(cmd, ExitFailure, "Failed to prune branches.",
			issue.WrapWithOperation(err, "list branches"))
	}

	if plan.Empty() {
		fmt.Fprintln(stdout, SuccessStyle.Render("Nothing to prune."))
		return nil
	}

	printPrunePlan(stdout, plan)

	if pruneDryRun {
		fmt.Fprintln(stdout, SubtitleStyle.Render("Dry run: nothing was deleted."))
		return nil
	}

	if !pruneYes {
		if !termio.IsInteractive(os.Stdin) {
			return failCommand(cmd, ExitFailure,
				"Refusing to delete without confirmation (stdin is not a terminal); pass --yes.", nil)
		}
		ok, err := prompt.Confirm(os.Stdin, stdout,
			fmt.Sprintf("Delete these %d refs?", len(plan.Locals)+len(plan.Remotes)), prompt.DefaultNo)
		if err != nil {
			return failCommand(cmd, ExitFailure, "Failed to prune branches.", err)
		}
		if !ok {
			fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	result := pruner.Execute(ctx, plan)

	fmt.Fprintln(stdout, strings.Repeat("─", min(termio.Width(60), 60)))
	fmt.Fprintf(stdout, "%s %d local, %d remote-tracking\n",
		SuccessStyle.Render("Deleted:"), len(result.DeletedLocals), len(result.DeletedRemotes))
	if len(result.Failures) > 0 {
		fmt.Fprintf(stdout, "%s %d refs could not be deleted (see warnings above)\n",
			WarningStyle.Render("Skipped:"), len(result.Failures))
	}
	return nil
}

// printPrunePlan lists the deletion candidates grouped by kind.
func printPrunePlan(w io.Writer, plan *gitx.Plan) {
	fmt.Fprintln(w, TitleStyle.Render("Branches to prune")+
		SubtitleStyle.Render(fmt.Sprintf(" (current: %s)", plan.Current)))
	if len(plan.Locals) > 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("Local:"))
		for _, name := range plan.Locals {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(plan.Remotes) > 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("Remote-tracking:"))
		for _, ref := range plan.Remotes {
			fmt.Fprintf(w, "  %s\n", ref)
		}
	}
}
