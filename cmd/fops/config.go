// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fops-cli/internal/config"
)

// configInitForce overwrites an existing config file
var configInitForce bool

// configCmd groups configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fops configuration",
	Long: `Manage the fops configuration file.

The config file lives at <platform config dir>/fops/config.toml and can
override the archive format, the cache sweep patterns, and the protected
branch set. Environment variables with the FOPS_ prefix override the file.`,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cfg.TOML()
		if err != nil {
			return failCommand(cmd, ExitFailure, "Failed to render configuration.", err)
		}

		path, pathErr := config.Path()
		if pathErr == nil {
			fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("# "+path))
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// configInitCmd writes a default config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteDefault(configInitForce)
		if err != nil {
			return failCommand(cmd, ExitFailure, "Failed to initialize configuration.", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Config written")+" - "+path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
