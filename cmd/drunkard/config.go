package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective experiment as YAML",
	Long: `Prints the experiment that run would execute, after --config and the global
flags are applied. The output is a valid experiment file.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadExperiment(cmd)
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.WriteYAML(os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
