// Copyright the finance-papers authors, 2025. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of finance-papers",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finance-papers %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
