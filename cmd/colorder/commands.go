package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"colorder/internal/artifact"
	"colorder/internal/config"
	"colorder/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the canonical column order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for i, header := range schema.Default().Headers() {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, header)
			}
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file and report every problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return errors.New("validate needs --config")
			}
			cfg, err := config.Read(configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			result := config.ValidateConfig(cfg)
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "warning: %s: %s\n", w.Field, w.Message)
			}
			for _, e := range result.Errors {
				fmt.Fprintf(out, "error: %s: %s\n", e.Field, e.Message)
			}
			if !result.Valid {
				return fmt.Errorf("%s has %d error(s)", configPath, len(result.Errors))
			}
			fmt.Fprintf(out, "%s is valid\n", configPath)
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with every default filled in",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "colorder.json"
			if len(args) == 1 {
				path = args[0]
			}
			if artifact.FileExists(path) {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}
