package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of asn1spec",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("asn1spec %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
