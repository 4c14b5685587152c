// SPDX-License-Identifier: MPL-2.0

package config

import (
	"slices"

	"github.com/pelletier/go-toml/v2"

	"fops-cli/internal/cache"
	"fops-cli/internal/gitx"
)

type (
	// Config is the full fops configuration. Flags beat config values,
	// which beat built-in defaults.
	Config struct {
		UI      UIConfig      `mapstructure:"ui" toml:"ui"`
		Archive ArchiveConfig `mapstructure:"archive" toml:"archive"`
		Cache   CacheConfig   `mapstructure:"cache" toml:"cache"`
		Git     GitConfig     `mapstructure:"git" toml:"git"`
	}

	// UIConfig holds output verbosity preferences.
	UIConfig struct {
		// Verbose enables debug logging.
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
		// Quiet suppresses info logging. Mutually exclusive with Verbose;
		// the flag layer enforces this for flags, Validate for files.
		Quiet bool `mapstructure:"quiet" toml:"quiet"`
	}

	// ArchiveConfig holds archive-builder preferences.
	ArchiveConfig struct {
		// DefaultFormat is used when --archive-format is not given.
		DefaultFormat string `mapstructure:"default_format" toml:"default_format"`
	}

	// CacheConfig overrides what the cache sweeper removes.
	CacheConfig struct {
		// Directories are cache directory names removed recursively.
		Directories []string `mapstructure:"directories" toml:"directories"`
		// FilePatterns are globs for cache files removed individually.
		FilePatterns []string `mapstructure:"file_patterns" toml:"file_patterns"`
	}

	// GitConfig holds branch-pruning preferences.
	GitConfig struct {
		// ProtectedBranches are never pruned. The current branch is always
		// protected on top of these.
		ProtectedBranches []string `mapstructure:"protected_branches" toml:"protected_branches"`
		// Remote is the remote whose tracking refs are pruned.
		Remote string `mapstructure:"remote" toml:"remote"`
	}
)

// DefaultConfig returns the built-in defaults. The cache and git defaults
// live with their packages; config just surfaces them.
func DefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			DefaultFormat: "zip",
		},
		Cache: CacheConfig{
			Directories:  slices.Clone(cache.DefaultDirectories),
			FilePatterns: slices.Clone(cache.DefaultFilePatterns),
		},
		Git: GitConfig{
			ProtectedBranches: slices.Clone(gitx.DefaultProtected),
			Remote:            "origin",
		},
	}
}

// TOML renders the configuration as a TOML document.
func (c *Config) TOML() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
