package main

import (
	"fmt"
	"os"

	"github.com/aretw0/drunkard/internal/cli"
	"github.com/aretw0/drunkard/pkg/field"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Trace the spots visited by one long walk per policy",
	Long: `Walks one walker per policy through a shared field and records every spot
visited. The field holds randomly placed wormholes unless --holes is 0.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadExperiment(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("steps") {
			cfg.Trace.Steps, _ = cmd.Flags().GetInt("steps")
		}

		holes := cfg.Trace.Wormholes
		if holes == nil {
			holes = &field.WormholeConfig{}
		}
		if cmd.Flags().Changed("holes") {
			holes.Holes, _ = cmd.Flags().GetInt("holes")
		}
		if cmd.Flags().Changed("x-range") {
			holes.XRange, _ = cmd.Flags().GetInt("x-range")
		}
		if cmd.Flags().Changed("y-range") {
			holes.YRange, _ = cmd.Flags().GetInt("y-range")
		}
		cfg.Trace.Wormholes = holes
		if holes.Holes == 0 {
			cfg.Trace.Wormholes = nil
		}

		runSections(cmd, cfg, cli.Sections{Trace: true})
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().Int("steps", 0, "Steps per walk (default 1000)")
	traceCmd.Flags().Int("holes", 0, "Number of wormholes (default 500, 0 disables)")
	traceCmd.Flags().Int("x-range", 0, "Wormholes lie within [-x-range, x-range] (default 200)")
	traceCmd.Flags().Int("y-range", 0, "Wormholes lie within [-y-range, y-range] (default 200)")
}
