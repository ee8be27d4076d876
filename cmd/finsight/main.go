package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "FinSight - LLM-assisted investment analysis",
	Long: `FinSight runs a staged analysis pipeline over a stock symbol:
analyst insights, a bull/bear research debate, a trading plan and a
final risk verdict, grounded in market data and past lessons.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
