package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/drunkard/internal/cli"
	"github.com/aretw0/drunkard/internal/config"
	"github.com/aretw0/drunkard/internal/logging"
	"github.com/aretw0/drunkard/internal/presentation/report"
	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "drunkard",
	Short: "Drunkard simulates biased random walks on an unbounded plane",
	Long: `Drunkard runs Monte-Carlo experiments of random walks: how far walkers drift
from the origin as the number of steps grows, where they end up, and which
spots they visit on a plane that may be riddled with wormholes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Experiment file (YAML or JSON)")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Seed of the master random source (0 draws from entropy)")
	rootCmd.PersistentFlags().Int("workers", 0, "Trials run concurrently per batch")
	rootCmd.PersistentFlags().StringSlice("policy", nil, "Policies to simulate (isotropic4, cold-biased, east-west2)")
	rootCmd.PersistentFlags().StringP("format", "f", "markdown", "Output format: markdown, text, json or yaml")
	rootCmd.PersistentFlags().Bool("json", false, "Shorthand for --format json")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}

// loadExperiment reads --config (or the defaults) and applies the persistent overrides.
func loadExperiment(cmd *cobra.Command) (config.Experiment, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Experiment{}, err
		}
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("policy") {
		names, _ := cmd.Flags().GetStringSlice("policy")
		cfg.Policies = cfg.Policies[:0]
		for _, name := range names {
			p, err := domain.ParsePolicy(name)
			if err != nil {
				return config.Experiment{}, err
			}
			cfg.Policies = append(cfg.Policies, p)
		}
	}
	return cfg, nil
}

func outputFormat(cmd *cobra.Command) (report.Format, error) {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return report.FormatJSON, nil
	}
	name, _ := cmd.Flags().GetString("format")
	return report.ParseFormat(name)
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	format, _ := cmd.Flags().GetString("log-format")
	name, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(name)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return cli.CreateLogger(debug, level, format)
}

// runSections is the shared body of run, sweep, locations and trace.
func runSections(cmd *cobra.Command, cfg config.Experiment, sections cli.Sections) {
	format, err := outputFormat(cmd)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cmd)
	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Cancel()

	r, err := cli.RunExperiment(ctx, cfg, sections, logger, cli.DebugHooks(logger))
	if err = cli.HandleExecutionError(os.Stderr, err, ctx.Signal()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if ctx.Err() != nil {
		os.Exit(130)
	}

	if err := cli.Emit(os.Stdout, r, format); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
