package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/drunkard"
	"github.com/aretw0/drunkard/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of drunkard",
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(os.Stdout, strings.TrimSpace(drunkard.Version))
			return
		}
		fmt.Printf("drunkard version %s\n", strings.TrimSpace(drunkard.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the colored banner")
}
