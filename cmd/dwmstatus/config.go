package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/dwmstatus/internal/config"
)

var configOpts struct {
	path  bool
	force bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration dwmstatus would run with, defaults included,
as TOML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configOpts.path {
			path, err := configPath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		}

		data, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Write the default configuration as TOML. An existing file is only
replaced with --force, which also works when that file no longer parses.`,
	Annotations: map[string]string{skipConfigLoad: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !configOpts.force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}

		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configCmd.Flags().BoolVar(&configOpts.path, "path", false,
		"Print the config file path instead")
	configInitCmd.Flags().BoolVar(&configOpts.force, "force", false,
		"Overwrite an existing file")
}
