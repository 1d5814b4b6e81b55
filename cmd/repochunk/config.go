// Copyright 2026 Repochunk Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/repochunk/repochunk/pkg/config"
	"github.com/repochunk/repochunk/pkg/errors"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Write a starter configuration file or check an existing one.`,
	}
	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigValidateCmd())
	return configCmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		format string
		output string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration",
		Long: `Write a sample configuration with a few priority rules.

Examples:
  repochunk config init                         # YAML to stdout
  repochunk config init --format toml -o repochunk.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return config.WriteSample(cmd.OutOrStdout(), config.SampleConfig(), format)
			}

			flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
			if force {
				flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			}
			f, err := os.OpenFile(output, flags, 0o644)
			if err != nil {
				if os.IsExist(err) {
					return fmt.Errorf("%s already exists (use --force to overwrite)", output)
				}
				return errors.IOError("create config file", err).WithContext("path", output)
			}
			if err := writeSampleFile(f, format); err != nil {
				return errors.IOError("write config file", err).WithContext("path", output)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Config format (yaml, toml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func writeSampleFile(f io.WriteCloser, format string) error {
	if err := config.WriteSample(f, config.SampleConfig(), format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func newConfigValidateCmd() *cobra.Command {
	var explicit string
	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check a configuration for problems",
		Long: `Load the configuration that a run in dir would use and report every
problem found. Serialization treats these as warnings; this command exits
non-zero when any are present.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(args, explicit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			source := path
			if source == "" {
				source = "defaults"
			}

			problems := config.NewValidator().DryRun().Validate(cfg)
			if len(problems) == 0 {
				fmt.Fprintf(out, "Configuration OK (%s)\n", source)
				return nil
			}
			fmt.Fprintf(out, "Configuration %s has %d problem(s):\n", source, len(problems))
			for _, p := range problems {
				fmt.Fprintf(out, "  - %s\n", p.Error())
			}
			return errors.ValidationError(fmt.Sprintf("%d configuration problem(s)", len(problems)), nil)
		},
	}
	cmd.Flags().StringVarP(&explicit, "config", "c", "", "Path to configuration file")
	return cmd
}
