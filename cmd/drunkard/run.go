package main

import (
	"fmt"
	"os"

	"github.com/aretw0/drunkard/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full experiment",
	Long: `Runs the distance sweep, the final-location scatter and the traced walk for
every selected policy, then prints the report.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadExperiment(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		runSections(cmd, cfg, cli.AllSections)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	// 'run' is the default when no command is provided.
	rootCmd.Run = runCmd.Run
}
