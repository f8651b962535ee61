package main

import (
	"fmt"

	"github.com/aretw0/drilldown"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of drillbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("drillbot version %s\n", drilldown.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
