// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"fbbench/internal/config"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage fbbench configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration as CUE",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a default config file if none exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.CreateDefaultConfig(); err != nil {
				return err
			}
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			path := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("config ready: ")+CmdStyle.Render(path))
			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
