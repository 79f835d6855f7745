package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentos-dev/agentos/internal/infrastructure/build"
)

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of agentos",
	Run: func(_ *cobra.Command, _ []string) {
		info := build.Get()
		fmt.Printf("agentos version %s\n", info.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
