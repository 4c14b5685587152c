// SPDX-License-Identifier: MPL-2.0

// Package cache removes known build/test cache artifacts from a project
// tree: named cache directories are deleted recursively and cache file
// globs are unlinked. Anything on a path that mentions a virtualenv is
// left alone.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// DefaultDirectories are the cache directory names swept by default.
var DefaultDirectories = []string{
	"__pycache__",
	".pytest_cache",
	".ipynb_checkpoints",
	".ruff_cache",
	"spark-warehouse",
}

// DefaultFilePatterns are the cache file globs swept by default.
var DefaultFilePatterns = []string{
	"*.py[co]",
	".coverage",
	".coverage.*",
}

// venvMarker guards virtualenv trees against deletion. The substring is
// matched anywhere in the absolute path, which also covers ".venv",
// "venv311", and a sweep root that itself lives under a venv-named parent.
const venvMarker = "venv"

type (
	// Sweeper deletes cache artifacts under a root directory.
	// The zero value is not usable; construct with New.
	Sweeper struct {
		// Directories are cache directory names removed recursively.
		Directories []string
		// FilePatterns are globs for cache files removed individually.
		FilePatterns []string
		// DryRun reports what would be removed without removing it.
		DryRun bool
		// Logger receives one info line per removed path.
		Logger *log.Logger
	}

	// Report lists what a sweep removed (or would remove under DryRun),
	// as paths relative to the swept root.
	Report struct {
		Directories []string
		Files       []string
	}
)

// New returns a Sweeper with the default directory names and file globs.
func New() *Sweeper {
	return &Sweeper{
		Directories:  slices.Clone(DefaultDirectories),
		FilePatterns: slices.Clone(DefaultFilePatterns),
		Logger:       log.Default(),
	}
}

// Total returns the number of removed entries in the report.
func (r *Report) Total() int {
	return len(r.Directories) + len(r.Files)
}

// Sweep removes cache artifacts under root and returns a report of the
// removed paths. The first removal failure aborts the sweep; everything
// removed up to that point stays removed.
func (s *Sweeper) Sweep(root string) (*Report, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", root)
	}

	report := &Report{}

	for _, name := range s.Directories {
		matches, err := s.match(absRoot, name)
		if err != nil {
			return report, err
		}
		for _, rel := range matches {
			removed, err := s.remove(absRoot, rel, true)
			if err != nil {
				return report, err
			}
			if removed {
				report.Directories = append(report.Directories, rel)
			}
		}
	}

	for _, pattern := range s.FilePatterns {
		matches, err := s.match(absRoot, pattern)
		if err != nil {
			return report, err
		}
		for _, rel := range matches {
			removed, err := s.remove(absRoot, rel, false)
			if err != nil {
				return report, err
			}
			if removed {
				report.Files = append(report.Files, rel)
			}
		}
	}

	return report, nil
}

// match expands pattern recursively under root and returns sorted slash
// separated relative paths, with virtualenv paths filtered out.
func (s *Sweeper) match(root, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/"+pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid cache pattern %q: %w", pattern, err)
	}

	kept := matches[:0]
	for _, rel := range matches {
		// The guard sees the full absolute path, so the root's own location
		// counts too.
		if strings.Contains(filepath.Join(root, filepath.FromSlash(rel)), venvMarker) {
			continue
		}
		kept = append(kept, rel)
	}
	slices.Sort(kept)
	return kept, nil
}

// remove deletes one matched entry. A match that vanished because an
// enclosing cache directory was already removed is not an error.
func (s *Sweeper) remove(root, rel string, recursive bool) (bool, error) {
	path := filepath.Join(root, filepath.FromSlash(rel))

	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if s.DryRun {
		s.Logger.Info("would delete", "path", path)
		return true, nil
	}

	var err error
	if recursive {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", path, err)
	}

	s.Logger.Info("deleted", "path", path)
	return true, nil
}
