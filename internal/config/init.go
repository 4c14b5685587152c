// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"fops-cli/internal/issue"
)

// fileHeader is written at the top of a generated config file.
const fileHeader = `# fops configuration.
# Values here override the built-in defaults; command-line flags override
# both. Environment variables use the FOPS_ prefix (e.g. FOPS_GIT_REMOTE).

`

// WriteDefault writes the default configuration to the config path and
// returns that path. An existing file is only replaced with force set.
func WriteDefault(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if fileExists(path) && !force {
		return "", issue.NewErrorContext().
			WithOperation("initialize configuration").
			WithResource(path).
			WithSuggestion("Use --force to overwrite the existing file").
			Wrap(fmt.Errorf("config file already exists")).
			BuildError()
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to encode default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
