// SPDX-License-Identifier: MPL-2.0

// Package gitx provides branch operations via the git executable.
//
// All operations shell out to the git CLI and parse its line-oriented
// output rather than binding a git library. This keeps the tool compatible
// with user configuration (aliases, credential helpers, worktrees) and
// matches how the rest of the tool treats external programs.
package gitx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type (
	// Client is the capability surface the branch pruner needs. It is an
	// interface so the pruning pass can be tested without a repository.
	Client interface {
		// CurrentBranch returns the checked-out branch name, or "HEAD" when
		// detached.
		CurrentBranch(ctx context.Context) (string, error)

		// LocalBranches returns all local branch names.
		LocalBranches(ctx context.Context) ([]string, error)

		// RemoteBranches returns remote-tracking refs for the given remote,
		// in "remote/branch" form. The symbolic "remote/HEAD" ref is not a
		// branch and is excluded.
		RemoteBranches(ctx context.Context, remote string) ([]string, error)

		// DeleteLocal deletes a local branch. With force set, unmerged
		// branches are deleted too.
		DeleteLocal(ctx context.Context, name string, force bool) error

		// DeleteRemoteRef deletes a remote-tracking ref locally. It never
		// touches the remote itself.
		DeleteRemoteRef(ctx context.Context, ref string) error
	}

	// CLIClient implements Client by invoking the git binary.
	CLIClient struct {
		// Dir is the working directory for git invocations. Empty means the
		// process working directory.
		Dir string
	}
)

// NewCLIClient returns a Client that runs git commands in dir.
func NewCLIClient(dir string) *CLIClient {
	return &CLIClient{Dir: dir}
}

// CurrentBranch implements Client.
func (c *CLIClient) CurrentBranch(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// LocalBranches implements Client.
func (c *CLIClient) LocalBranches(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// RemoteBranches implements Client.
func (c *CLIClient) RemoteBranches(ctx context.Context, remote string) ([]string, error) {
	out, err := c.run(ctx, "for-each-ref", "--format=%(refname:short)", "refs/remotes/"+remote+"/")
	if err != nil {
		return nil, err
	}

	refs := splitLines(out)
	kept := refs[:0]
	for _, ref := range refs {
		if ref == remote+"/HEAD" {
			continue
		}
		kept = append(kept, ref)
	}
	return kept, nil
}

// DeleteLocal implements Client.
func (c *CLIClient) DeleteLocal(ctx context.Context, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := c.run(ctx, "branch", flag, name)
	return err
}

// DeleteRemoteRef implements Client.
func (c *CLIClient) DeleteRemoteRef(ctx context.Context, ref string) error {
	_, err := c.run(ctx, "branch", "-rd", ref)
	return err
}

// run executes one git command and returns its stdout. A nonzero exit
// becomes an error carrying the trimmed stderr text.
func (c *CLIClient) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, detail)
	}
	return stdout.String(), nil
}

// splitLines splits command output into trimmed, non-empty lines.
func splitLines(out string) []string {
	var lines []string
	for line := range strings.Lines(out) {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
