package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/omarchive"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of omarchive",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("omarchive version %s\n", strings.TrimSpace(omarchive.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
