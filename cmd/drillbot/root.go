package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "drillbot",
	Short: "drillbot runs a drilldown menu bot over Telegram",
	Long:  `drillbot drives users through a nested menu/prompt flow defined in a YAML config, over the Telegram Bot API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "drillbot.yaml", "Path to the bot configuration file")
}
