// SPDX-License-Identifier: MPL-2.0

package gitx

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
)

// fakeClient is an in-memory Client for exercising the pruner without a
// real repository.
type fakeClient struct {
	current string
	locals  []string
	remotes []string

	failDelete map[string]error

	deletedLocals []string
	deletedRefs   []string
	forced        []bool
}

func (f *fakeClient) CurrentBranch(context.Context) (string, error) {
	return f.current, nil
}

func (f *fakeClient) LocalBranches(context.Context) ([]string, error) {
	return slices.Clone(f.locals), nil
}

func (f *fakeClient) RemoteBranches(context.Context, string) ([]string, error) {
	return slices.Clone(f.remotes), nil
}

func (f *fakeClient) DeleteLocal(_ context.Context, name string, force bool) error {
	if err := f.failDelete[name]; err != nil {
		return err
	}
	f.deletedLocals = append(f.deletedLocals, name)
	f.forced = append(f.forced, force)
	return nil
}

func (f *fakeClient) DeleteRemoteRef(_ context.Context, ref string) error {
	if err := f.failDelete[ref]; err != nil {
		return err
	}
	f.deletedRefs = append(f.deletedRefs, ref)
	return nil
}

func newTestPruner(client Client) *Pruner {
	p := NewPruner(client)
	p.Logger = log.New(io.Discard)
	return p
}

func TestPlan_ExcludesProtectedAndCurrent(t *testing.T) {
	client := &fakeClient{
		current: "feature/wip",
		locals:  []string{"develop", "feature/old", "feature/wip", "main", "spike"},
		remotes: []string{"origin/develop", "origin/feature/old", "origin/main"},
	}

	plan, err := newTestPruner(client).Plan(context.Background(), "origin")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	if plan.Current != "feature/wip" {
		t.Errorf("Current = %q, want feature/wip", plan.Current)
	}
	if want := []string{"feature/old", "spike"}; !slices.Equal(plan.Locals, want) {
		t.Errorf("Locals = %v, want %v", plan.Locals, want)
	}
	if want := []string{"origin/feature/old"}; !slices.Equal(plan.Remotes, want) {
		t.Errorf("Remotes = %v, want %v", plan.Remotes, want)
	}
}

func TestPlan_CustomProtectedSet(t *testing.T) {
	client := &fakeClient{
		current: "main",
		locals:  []string{"main", "release", "scratch"},
		remotes: []string{"origin/release", "origin/scratch"},
	}

	p := newTestPruner(client)
	p.Protected = []string{"release"}

	plan, err := p.Plan(context.Background(), "origin")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	// "main" survives only because it is checked out.
	if want := []string{"scratch"}; !slices.Equal(plan.Locals, want) {
		t.Errorf("Locals = %v, want %v", plan.Locals, want)
	}
	if want := []string{"origin/scratch"}; !slices.Equal(plan.Remotes, want) {
		t.Errorf("Remotes = %v, want %v", plan.Remotes, want)
	}
}

func TestPlan_Empty(t *testing.T) {
	client := &fakeClient{current: "main", locals: []string{"main"}}

	plan, err := newTestPruner(client).Plan(context.Background(), "origin")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if !plan.Empty() {
		t.Errorf("plan should be empty, got %+v", plan)
	}
}

func TestExecute_DeletesEverythingInPlan(t *testing.T) {
	client := &fakeClient{}
	plan := &Plan{
		Locals:  []string{"a", "b"},
		Remotes: []string{"origin/a"},
	}

	result := newTestPruner(client).Execute(context.Background(), plan)

	if want := []string{"a", "b"}; !slices.Equal(result.DeletedLocals, want) {
		t.Errorf("DeletedLocals = %v, want %v", result.DeletedLocals, want)
	}
	if want := []string{"origin/a"}; !slices.Equal(result.DeletedRemotes, want) {
		t.Errorf("DeletedRemotes = %v, want %v", result.DeletedRemotes, want)
	}
	if len(result.Failures) != 0 {
		t.Errorf("Failures = %v, want none", result.Failures)
	}
}

func TestExecute_ContinuesPastFailures(t *testing.T) {
	client := &fakeClient{
		failDelete: map[string]error{
			"unmerged": errors.New("the branch 'unmerged' is not fully merged"),
		},
	}
	plan := &Plan{Locals: []string{"first", "unmerged", "last"}}

	result := newTestPruner(client).Execute(context.Background(), plan)

	if want := []string{"first", "last"}; !slices.Equal(result.DeletedLocals, want) {
		t.Errorf("DeletedLocals = %v, want %v", result.DeletedLocals, want)
	}
	if len(result.Failures) != 1 || result.Failures[0].Ref != "unmerged" {
		t.Errorf("Failures = %v, want one failure for 'unmerged'", result.Failures)
	}
}

func TestExecute_ForceFlagReachesClient(t *testing.T) {
	client := &fakeClient{}
	p := newTestPruner(client)
	p.Force = true

	p.Execute(context.Background(), &Plan{Locals: []string{"stale"}})

	if len(client.forced) != 1 || !client.forced[0] {
		t.Errorf("forced = %v, want [true]", client.forced)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single line", input: "main\n", expected: []string{"main"}},
		{
			name:     "multiple with blanks",
			input:    "main\n\n  feature/x  \ndevelop\n",
			expected: []string{"main", "feature/x", "develop"},
		},
		{name: "no trailing newline", input: "main", expected: []string{"main"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitLines(tt.input); !slices.Equal(got, tt.expected) {
				t.Errorf("splitLines(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
