package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tds"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tds",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tds version %s\n", strings.TrimSpace(tds.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
