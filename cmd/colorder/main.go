// Package main provides the CLI entry point for colorder.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"colorder/internal/config"
	"colorder/internal/credentials"
	"colorder/internal/orchestrator"
	"colorder/internal/output"
	"colorder/internal/scanner"
)

var (
	configPath string
	envFile    string
	noOracle   bool
	overwrite  bool
	verbose    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "colorder [files or directories...]",
		Short: "Reorder spreadsheet export columns into the canonical order",
		Long: `colorder rewrites compensation exports (.csv, .txt, .xlsx) so their columns
follow the canonical schema. Headers are matched after trimming, unquoting and
collapsing whitespace, ignoring case. When an OpenAI API key is available the
headers are matched by the model first, falling back to the exact match.

Each input is left untouched; a reformatted copy and a backup are written
next to it.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runReformat,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "JSON configuration file")
	flags.StringVar(&envFile, "env-file", "", "KEY=value credentials file (default: .env)")
	flags.BoolVar(&noOracle, "no-oracle", false, "Use the exact header match only")
	flags.BoolVar(&overwrite, "overwrite", false, "Reuse existing output and backup names")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print the column mapping and run details")

	rootCmd.AddCommand(newWatchCmd(), newSchemaCmd(), newValidateCmd(), newInitCmd())
	return rootCmd
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig() (*config.Configuration, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if envFile != "" {
		cfg.Oracle.CredentialsFile = envFile
	}
	if noOracle {
		cfg.DisableOracle()
	}
	if overwrite {
		cfg.Output.Overwrite = true
	}
	return cfg, nil
}

// newOutput writes to the command's streams so callers can capture them.
func newOutput(cmd *cobra.Command) *output.Output {
	outCfg := output.ConfigFor(cmd.OutOrStdout(), cmd.ErrOrStderr())
	outCfg.Verbose = verbose
	return output.New(outCfg)
}

// setup loads everything a run needs.
func setup(cmd *cobra.Command) (*config.Configuration, *orchestrator.Reformatter, *output.Output, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	out := newOutput(cmd)

	creds, err := credentials.Load(cfg.Oracle.CredentialsFile)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, orchestrator.NewFromConfig(cfg, creds.WithEnvironment(), out), out, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runReformat(cmd *cobra.Command, args []string) error {
	cfg, reformatter, out, err := setup(cmd)
	if err != nil {
		return err
	}

	opts := scanner.DefaultScanOptions()
	opts.Naming = cfg.Naming()
	inputs, err := scanner.Expand(args, opts)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no spreadsheet exports found in %v", args)
	}

	ctx, stop := signalContext()
	defer stop()

	// A single input reports its own error directly.
	if len(inputs) == 1 {
		summary, err := reformatter.Run(ctx, inputs[0])
		if err != nil {
			return err
		}
		summary.Report(out)
		return nil
	}

	batch := reformatter.RunBatch(ctx, inputs)
	for _, summary := range batch.Runs {
		summary.Report(out)
	}
	for _, failure := range batch.Failures {
		out.Error("Error: %v", failure.Err)
	}
	out.Info("%s", batch.String())

	if batch.HasErrors() {
		return fmt.Errorf("%d of %d files failed", len(batch.Failures), len(inputs))
	}
	if ctx.Err() != nil {
		return fmt.Errorf("interrupted after %d of %d files", len(batch.Runs), len(inputs))
	}
	return nil
}
