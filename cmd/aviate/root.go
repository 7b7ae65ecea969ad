package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aviate",
	Short: "Backend for the Aviate marketing site and workspace",
	Long: `Aviate serves the public pricing API with geo-localized prices,
plus the authenticated workspace: guided product workflows, notes,
AI chat, and billing.

Quick start:
  aviate serve      # Start the API server
  aviate validate   # Validate configuration
  aviate plans      # Print the pricing catalog`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "aviate.yaml", "config file path")
}
