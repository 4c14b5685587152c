// SPDX-License-Identifier: MPL-2.0

// Package archive builds deterministic, filtered archives of a directory.
//
// The builder expands glob patterns against a source directory, dedups and
// sorts the matches by relative path, stages a faithful copy (symlinks
// included) into a fresh temporary root, and hands that root to a
// format-specific packer. The sort is a contract, not an optimization:
// identical inputs must produce identical archive member ordering.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// defaultPattern matches every entry under the source root, recursively.
const defaultPattern = "**/*"

type (
	// Options describes one archive build.
	Options struct {
		// Dir is the source directory to archive. Must exist and be a
		// directory.
		Dir string

		// Name is the bare output file name without extension. Empty means
		// "<UTC timestamp>_<base name of Dir>". Path separators are rejected.
		Name string

		// Patterns are doublestar globs applied recursively against Dir,
		// like rglob: a pattern without "**" matches at any depth. Empty
		// means everything.
		Patterns []string

		// Format selects the packer, case-insensitively. Empty means "zip".
		Format string
	}

	// Builder creates archives. The zero value is not usable; construct
	// with NewBuilder.
	Builder struct {
		// Now supplies the clock for default archive names. Injectable so
		// ordering determinism is testable with a frozen timestamp.
		Now func() time.Time

		// Logger receives a debug line per staged entry.
		Logger *log.Logger

		packers map[string]Packer
	}
)

// NewBuilder returns a Builder with the default packer registry, the real
// clock, and the default logger.
func NewBuilder() *Builder {
	return &Builder{
		Now:     time.Now,
		Logger:  log.Default(),
		packers: DefaultPackers(),
	}
}

// Create builds one archive and returns the absolute path of the produced
// file, written to the current working directory.
//
// All validation happens before any filesystem mutation. The temporary
// staging root is removed on every exit path; if staging or packing fails
// the caller observes either a complete archive or no archive at all.
func (b *Builder) Create(opts Options) (string, error) {
	srcDir, err := b.resolveSourceDir(opts.Dir)
	if err != nil {
		return "", err
	}

	packer, err := b.resolvePacker(opts.Format)
	if err != nil {
		return "", err
	}

	name, err := b.resolveName(opts.Name, srcDir)
	if err != nil {
		return "", err
	}

	matches, err := b.expandPatterns(srcDir, opts.Patterns)
	if err != nil {
		return "", err
	}

	stagingRoot, err := os.MkdirTemp("", "fops-staging-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingRoot)

	if err := b.stage(srcDir, stagingRoot, matches); err != nil {
		return "", err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	return packer.Pack(stagingRoot, filepath.Join(cwd, name))
}

// resolveSourceDir validates that dir exists and is a directory, returning
// its absolute path.
func (b *Builder) resolveSourceDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", &InvalidSourceDirError{Path: dir}
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", &InvalidSourceDirError{Path: dir}
	}
	return abs, nil
}

// resolvePacker looks up the packer for a format identifier,
// case-insensitively.
func (b *Builder) resolvePacker(format string) (Packer, error) {
	if format == "" {
		format = "zip"
	}
	format = strings.ToLower(format)

	packer, ok := b.packers[format]
	if !ok {
		return nil, &UnsupportedFormatError{
			Format:    format,
			Supported: formatNames(b.packers),
		}
	}
	return packer, nil
}

// resolveName validates the supplied name or synthesizes the default
// "<UTC timestamp>_<source base>" one.
func (b *Builder) resolveName(name, srcDir string) (string, error) {
	if name == "" {
		stamp := b.Now().UTC().Format("20060102150405")
		return stamp + "_" + filepath.Base(srcDir), nil
	}
	// A bare file name only: anything else could escape the intended
	// output location.
	if filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", &InvalidNameError{Name: name}
	}
	return name, nil
}

// expandPatterns applies each pattern recursively under srcDir, unions the
// matches, and returns them sorted by their slash-separated relative path.
func (b *Builder) expandPatterns(srcDir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{defaultPattern}
	}

	matched := make(map[string]struct{})
	fsys := os.DirFS(srcDir)

	for _, pattern := range patterns {
		// rglob semantics: a plain pattern matches at any depth.
		pat := pattern
		if !strings.HasPrefix(pat, "**") {
			pat = "**/" + pat
		}

		matches, err := doublestar.Glob(fsys, pat)
		if err != nil {
			return nil, &InvalidPatternError{Pattern: pattern}
		}
		for _, rel := range matches {
			matched[rel] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(matched))
	for rel := range matched {
		ordered = append(ordered, rel)
	}
	slices.Sort(ordered)
	return ordered, nil
}

// stage copies every matched entry from srcDir into stagingRoot, in order.
// Directories are recreated empty (their children are independent matches),
// symlinks are recreated without being resolved, regular files are copied
// with mtime and permission bits. Everything else is skipped.
//
// Glob expansion follows symlinks, so a symlinked directory also matches
// its children under the link's path. Those children are skipped: the
// staged link already represents them, and staging through it would fail
// whenever the link target sorts after the link.
func (b *Builder) stage(srcDir, stagingRoot string, matches []string) error {
	linked := make(map[string]struct{})

	for _, rel := range matches {
		if underStagedLink(linked, rel) {
			b.Logger.Debug("skipping entry matched through a symlink", "path", rel)
			continue
		}

		src := filepath.Join(srcDir, filepath.FromSlash(rel))
		dst := filepath.Join(stagingRoot, filepath.FromSlash(rel))

		b.Logger.Debug("staging", "path", src)

		info, err := os.Lstat(src)
		if err != nil {
			// The entry vanished between matching and staging; skip it.
			continue
		}

		if info.IsDir() {
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return fmt.Errorf("failed to stage directory %s: %w", rel, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("failed to stage parent of %s: %w", rel, err)
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			if err := b.stageSymlink(src, dst); err != nil {
				return fmt.Errorf("failed to stage symlink %s: %w", rel, err)
			}
			linked[rel] = struct{}{}
		case info.Mode().IsRegular():
			if err := b.stageFile(src, dst, info); err != nil {
				return fmt.Errorf("failed to stage file %s: %w", rel, err)
			}
		default:
			// Devices, sockets, and fifos have no archive representation.
			b.Logger.Debug("skipping non-regular entry", "path", src)
		}
	}
	return nil
}

// underStagedLink reports whether an ancestor of rel was staged as a
// symlink. Matches are sorted, so an ancestor is always seen before its
// descendants.
func underStagedLink(linked map[string]struct{}, rel string) bool {
	if len(linked) == 0 {
		return false
	}
	for i, r := range rel {
		if r != '/' {
			continue
		}
		if _, ok := linked[rel[:i]]; ok {
			return true
		}
	}
	return false
}

// stageSymlink recreates the link object itself; the raw target is copied
// verbatim, never resolved. Whatever occupies the staged path is removed
// first, so a same-named entry matched by another pattern cannot make link
// creation fail.
func (b *Builder) stageSymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		if err := os.RemoveAll(dst); err != nil {
			return err
		}
	}
	return os.Symlink(target, dst)
}

// stageFile copies the file bytes plus permission bits and mtime.
func (b *Builder) stageFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(out, in)
	if err := errors.Join(copyErr, out.Close()); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
