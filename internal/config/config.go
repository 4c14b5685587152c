// SPDX-License-Identifier: MPL-2.0

// Package config loads the fops configuration from a TOML file in the
// platform config directory, with FOPS_* environment variables layered on
// top. Missing files are not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"fops-cli/internal/issue"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "fops"
	// ConfigFileName is the config file name within the config directory.
	ConfigFileName = "config.toml"
)

var (
	// configFileOverride is set via the --config flag.
	configFileOverride string
	// configDirOverride lets tests redirect the config directory.
	configDirOverride string
)

// SetConfigFilePathOverride points Load at a specific config file.
func SetConfigFilePathOverride(path string) {
	configFileOverride = path
}

// ConfigDir returns the fops configuration directory using platform
// conventions: %APPDATA% on Windows, ~/Library/Application Support on
// macOS, $XDG_CONFIG_HOME (defaulting to ~/.config) elsewhere.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Path returns the full path of the config file.
func Path() (string, error) {
	if configFileOverride != "" {
		return configFileOverride, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the configuration. A missing config file yields the defaults;
// an explicitly requested file that does not exist is an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	defaults := DefaultConfig()
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.quiet", defaults.UI.Quiet)
	v.SetDefault("archive.default_format", defaults.Archive.DefaultFormat)
	v.SetDefault("cache.directories", defaults.Cache.Directories)
	v.SetDefault("cache.file_patterns", defaults.Cache.FilePatterns)
	v.SetDefault("git.protected_branches", defaults.Git.ProtectedBranches)
	v.SetDefault("git.remote", defaults.Git.Remote)

	v.SetEnvPrefix("FOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := Path()
	if err != nil {
		return nil, err
	}

	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid TOML").
				WithSuggestion("Run 'fops config init --force' to restore the defaults").
				Wrap(err).
				BuildError()
		}
	} else if configFileOverride != "" {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Run 'fops config init' to create a config file").
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.UI.Verbose && cfg.UI.Quiet {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Set at most one of ui.verbose and ui.quiet").
			Wrap(fmt.Errorf("ui.verbose and ui.quiet are mutually exclusive")).
			BuildError()
	}

	return &cfg, nil
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
