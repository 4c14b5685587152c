// SPDX-License-Identifier: MPL-2.0

package gitx

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultProtected are the branch names never pruned, in addition to
// whichever branch is currently checked out.
var DefaultProtected = []string{"main", "master", "develop"}

type (
	// Pruner deletes local branches and remote-tracking refs outside a
	// protected set. The zero value is not usable; construct with NewPruner.
	Pruner struct {
		// Protected are branch names excluded from pruning. The current
		// branch is always added on top.
		Protected []string

		// Force deletes local branches even when unmerged.
		Force bool

		// Logger receives one line per deleted or failed ref.
		Logger *log.Logger

		client Client
	}

	// Plan lists what a pruning pass would delete.
	Plan struct {
		// Current is the checked-out branch (protected implicitly).
		Current string
		// Locals are local branch names slated for deletion.
		Locals []string
		// Remotes are remote-tracking refs slated for deletion.
		Remotes []string
	}

	// Result reports what a pruning pass actually did. A per-ref delete
	// failure does not abort the pass; it is recorded here instead.
	Result struct {
		DeletedLocals  []string
		DeletedRemotes []string
		Failures       []Failure
	}

	// Failure records one ref that could not be deleted.
	Failure struct {
		Ref string
		Err error
	}
)

// NewPruner returns a Pruner over the given client with the default
// protected set.
func NewPruner(client Client) *Pruner {
	return &Pruner{
		Protected: slices.Clone(DefaultProtected),
		Logger:    log.Default(),
		client:    client,
	}
}

// Empty reports whether the plan has nothing to delete.
func (p *Plan) Empty() bool {
	return len(p.Locals) == 0 && len(p.Remotes) == 0
}

// Plan computes the deletion candidates without touching anything: every
// local branch and every remote-tracking ref of remote that is not in the
// protected set. Failing to read repository state is fatal; there is
// nothing sensible to prune without it.
func (p *Pruner) Plan(ctx context.Context, remote string) (*Plan, error) {
	current, err := p.client.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine current branch: %w", err)
	}

	protected := make(map[string]struct{}, len(p.Protected)+1)
	for _, name := range p.Protected {
		protected[name] = struct{}{}
	}
	protected[current] = struct{}{}

	locals, err := p.client.LocalBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list local branches: %w", err)
	}

	remotes, err := p.client.RemoteBranches(ctx, remote)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches: %w", err)
	}

	plan := &Plan{Current: current}
	for _, name := range locals {
		if _, ok := protected[name]; ok {
			continue
		}
		plan.Locals = append(plan.Locals, name)
	}
	for _, ref := range remotes {
		name := strings.TrimPrefix(ref, remote+"/")
		if _, ok := protected[name]; ok {
			continue
		}
		plan.Remotes = append(plan.Remotes, ref)
	}
	return plan, nil
}

// Execute deletes everything in the plan. A ref that fails to delete is
// logged at warn level and the pass continues with the next one.
func (p *Pruner) Execute(ctx context.Context, plan *Plan) *Result {
	result := &Result{}

	for _, name := range plan.Locals {
		if err := p.client.DeleteLocal(ctx, name, p.Force); err != nil {
			p.Logger.Warn("could not delete local branch", "branch", name, "err", err)
			result.Failures = append(result.Failures, Failure{Ref: name, Err: err})
			continue
		}
		p.Logger.Info("deleted local branch", "branch", name)
		result.DeletedLocals = append(result.DeletedLocals, name)
	}

	for _, ref := range plan.Remotes {
		if err := p.client.DeleteRemoteRef(ctx, ref); err != nil {
			p.Logger.Warn("could not delete remote-tracking ref", "ref", ref, "err", err)
			result.Failures = append(result.Failures, Failure{Ref: ref, Err: err})
			continue
		}
		p.Logger.Info("deleted remote-tracking ref", "ref", ref)
		result.DeletedRemotes = append(result.DeletedRemotes, ref)
	}

	return result
}
