// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestSweeper() *Sweeper {
	s := New()
	s.Logger = log.New(io.Discard)
	return s
}

func mkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	mkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSweep_RemovesCacheDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "__pycache__", "mod.cpython-312.pyc"), "x")
	writeFile(t, filepath.Join(root, "sub", ".pytest_cache", "v", "cache", "lastfailed"), "{}")
	writeFile(t, filepath.Join(root, "src", "keep.py"), "print()")

	report, err := newTestSweeper().Sweep(root)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	for _, gone := range []string{
		filepath.Join(root, "__pycache__"),
		filepath.Join(root, "sub", ".pytest_cache"),
	} {
		if _, err := os.Lstat(gone); !os.IsNotExist(err) {
			t.Errorf("%s should have been removed", gone)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "src", "keep.py")); err != nil {
		t.Errorf("keep.py should survive the sweep: %v", err)
	}
	if !slices.Contains(report.Directories, "__pycache__") {
		t.Errorf("report.Directories = %v, missing __pycache__", report.Directories)
	}
}

func TestSweep_RemovesCacheFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pyc"), "x")
	writeFile(t, filepath.Join(root, "sub", "b.pyo"), "x")
	writeFile(t, filepath.Join(root, ".coverage"), "x")
	writeFile(t, filepath.Join(root, ".coverage.host.123"), "x")
	writeFile(t, filepath.Join(root, "a.py"), "print()")

	report, err := newTestSweeper().Sweep(root)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(report.Files) != 4 {
		t.Errorf("report.Files = %v, want 4 entries", report.Files)
	}
	if _, err := os.Stat(filepath.Join(root, "a.py")); err != nil {
		t.Errorf("a.py should survive the sweep: %v", err)
	}
}

func TestSweep_SkipsVirtualenvPaths(t *testing.T) {
	root := t.TempDir()
	kept := []string{
		filepath.Join(root, "venv", "lib", "__pycache__", "x.pyc"),
		filepath.Join(root, ".venv", "__pycache__", "y.pyc"),
		filepath.Join(root, "venv311", ".coverage"),
	}
	for _, p := range kept {
		writeFile(t, p, "x")
	}
	writeFile(t, filepath.Join(root, "pkg", "__pycache__", "z.pyc"), "x")

	report, err := newTestSweeper().Sweep(root)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	for _, p := range kept {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("virtualenv path %s should survive: %v", p, err)
		}
	}
	if _, err := os.Lstat(filepath.Join(root, "pkg", "__pycache__")); !os.IsNotExist(err) {
		t.Error("pkg/__pycache__ should have been removed")
	}
	if report.Total() != 1 {
		t.Errorf("report.Total() = %d, want 1", report.Total())
	}
}

func TestSweep_SkipsRootUnderVirtualenvParent(t *testing.T) {
	// The guard matches the absolute path, so a checkout living inside a
	// venv-named directory is left untouched wholesale.
	root := filepath.Join(t.TempDir(), "venvs", "proj")
	pycache := filepath.Join(root, "__pycache__", "mod.cpython-312.pyc")
	writeFile(t, pycache, "x")

	report, err := newTestSweeper().Sweep(root)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if report.Total() != 0 {
		t.Errorf("report.Total() = %d, want 0", report.Total())
	}
	if _, err := os.Stat(pycache); err != nil {
		t.Errorf("%s should survive the sweep: %v", pycache, err)
	}
}

func TestSweep_DryRunRemovesNothing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "__pycache__", "x.pyc"), "x")
	writeFile(t, filepath.Join(root, ".coverage"), "x")

	s := newTestSweeper()
	s.DryRun = true
	report, err := s.Sweep(root)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if report.Total() != 2 {
		t.Errorf("report.Total() = %d, want 2", report.Total())
	}
	if _, err := os.Stat(filepath.Join(root, "__pycache__")); err != nil {
		t.Errorf("dry run must not remove __pycache__: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, ".coverage")); err != nil {
		t.Errorf("dry run must not remove .coverage: %v", err)
	}
}

func TestSweep_CustomPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "build", "out.o"), "x")
	writeFile(t, filepath.Join(root, "deep", "build", "out.o"), "x")
	writeFile(t, filepath.Join(root, "__pycache__", "x.pyc"), "x")

	s := newTestSweeper()
	s.Directories = []string{"build"}
	s.FilePatterns = nil
	if _, err := s.Sweep(root); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if _, err := os.Lstat(filepath.Join(root, "deep", "build")); !os.IsNotExist(err) {
		t.Error("deep/build should have been removed")
	}
	// Default patterns were replaced, so __pycache__ stays.
	if _, err := os.Stat(filepath.Join(root, "__pycache__")); err != nil {
		t.Errorf("__pycache__ should survive with custom patterns: %v", err)
	}
}

func TestSweep_Validation(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		if _, err := newTestSweeper().Sweep(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("Sweep() should fail on a missing root")
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		root := t.TempDir()
		file := filepath.Join(root, "plain")
		writeFile(t, file, "x")
		if _, err := newTestSweeper().Sweep(file); err == nil {
			t.Error("Sweep() should fail when root is not a directory")
		}
	})
}
