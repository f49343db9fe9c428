package main

import (
	"fmt"
	"os"

	"github.com/aretw0/drunkard/internal/cli"
	"github.com/spf13/cobra"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Plot where walks end up",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadExperiment(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("steps") {
			cfg.Scatter.Steps, _ = cmd.Flags().GetInt("steps")
		}
		if cmd.Flags().Changed("trials") {
			cfg.Scatter.Trials, _ = cmd.Flags().GetInt("trials")
		}
		runSections(cmd, cfg, cli.Sections{Scatter: true})
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
	locationsCmd.Flags().Int("steps", 0, "Steps per walk (default 100)")
	locationsCmd.Flags().IntP("trials", "n", 0, "Walks per policy (default 200)")
}
