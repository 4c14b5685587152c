// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

// withConfigDir redirects the config directory for the duration of a test.
func withConfigDir(t *testing.T, dir string) {
	t.Helper()
	configDirOverride = dir
	t.Cleanup(func() { configDirOverride = "" })
}

// withConfigFile points Load at a specific file for the duration of a test.
func withConfigFile(t *testing.T, path string) {
	t.Helper()
	SetConfigFilePathOverride(path)
	t.Cleanup(func() { SetConfigFilePathOverride("") })
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	withConfigDir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Archive.DefaultFormat != "zip" {
		t.Errorf("Archive.DefaultFormat = %q, want zip", cfg.Archive.DefaultFormat)
	}
	if cfg.Git.Remote != "origin" {
		t.Errorf("Git.Remote = %q, want origin", cfg.Git.Remote)
	}
	if !slices.Contains(cfg.Git.ProtectedBranches, "main") {
		t.Errorf("ProtectedBranches = %v, missing main", cfg.Git.ProtectedBranches)
	}
	if !slices.Contains(cfg.Cache.Directories, "__pycache__") {
		t.Errorf("Cache.Directories = %v, missing __pycache__", cfg.Cache.Directories)
	}
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	withConfigDir(t, dir)

	content := `
[ui]
verbose = true

[archive]
default_format = "targz"

[git]
protected_branches = ["main", "release"]
remote = "upstream"
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true")
	}
	if cfg.Archive.DefaultFormat != "targz" {
		t.Errorf("Archive.DefaultFormat = %q, want targz", cfg.Archive.DefaultFormat)
	}
	if cfg.Git.Remote != "upstream" {
		t.Errorf("Git.Remote = %q, want upstream", cfg.Git.Remote)
	}
	if want := []string{"main", "release"}; !slices.Equal(cfg.Git.ProtectedBranches, want) {
		t.Errorf("ProtectedBranches = %v, want %v", cfg.Git.ProtectedBranches, want)
	}
	// Sections not present in the file keep their defaults.
	if !slices.Contains(cfg.Cache.Directories, "__pycache__") {
		t.Errorf("Cache.Directories = %v, missing defaults", cfg.Cache.Directories)
	}
}

func TestLoad_ExplicitMissingFileIsAnError(t *testing.T) {
	withConfigFile(t, filepath.Join(t.TempDir(), "nope.toml"))

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when an explicitly requested file is missing")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	withConfigDir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("not [valid"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on invalid TOML")
	}
}

func TestLoad_RejectsVerboseAndQuiet(t *testing.T) {
	dir := t.TempDir()
	withConfigDir(t, dir)
	content := "[ui]\nverbose = true\nquiet = true\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() should reject verbose together with quiet")
	}
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()
	withConfigDir(t, dir)

	path, err := WriteDefault(false)
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if path != filepath.Join(dir, ConfigFileName) {
		t.Errorf("path = %s, want %s", path, filepath.Join(dir, ConfigFileName))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# fops configuration.") {
		t.Errorf("written file should start with the header comment")
	}

	// The generated file round-trips to the defaults.
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("generated file is not valid TOML: %v", err)
	}
	if cfg.Archive.DefaultFormat != "zip" {
		t.Errorf("round-tripped DefaultFormat = %q, want zip", cfg.Archive.DefaultFormat)
	}

	// A second write without force refuses to clobber.
	if _, err := WriteDefault(false); err == nil {
		t.Error("WriteDefault() should refuse to overwrite without force")
	}
	if _, err := WriteDefault(true); err != nil {
		t.Errorf("WriteDefault(force) error = %v", err)
	}
}

func TestConfig_TOML(t *testing.T) {
	out, err := DefaultConfig().TOML()
	if err != nil {
		t.Fatalf("TOML() error = %v", err)
	}
	for _, want := range []string{"[ui]", "[archive]", "[cache]", "[git]", "default_format = 'zip'"} {
		if !strings.Contains(out, want) {
			t.Errorf("TOML() output missing %q:\n%s", want, out)
		}
	}
}
