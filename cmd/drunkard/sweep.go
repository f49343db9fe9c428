package main

import (
	"fmt"
	"os"

	"github.com/aretw0/drunkard/internal/cli"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Measure mean distance from the origin across step counts",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadExperiment(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("steps") {
			cfg.Steps, _ = cmd.Flags().GetIntSlice("steps")
		}
		if cmd.Flags().Changed("trials") {
			cfg.Trials, _ = cmd.Flags().GetInt("trials")
		}
		runSections(cmd, cfg, cli.Sections{Sweep: true})
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().IntSlice("steps", nil, "Step counts to sweep (default 10,100,1000,10000,100000)")
	sweepCmd.Flags().IntP("trials", "n", 0, "Trials per batch (default 100)")
}
