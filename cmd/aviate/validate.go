package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aviatehq/aviate/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("configuration invalid: %w", err)
		}

		fmt.Println("Configuration valid")
		fmt.Printf("  Listen:       %s:%d\n", cfg.Server.Host, cfg.Server.Port)
		fmt.Printf("  Database:     %s\n", cfg.Database.DSN)
		fmt.Printf("  GeoIP:        %s (timeout %s)\n", cfg.GeoIP.BaseURL, cfg.GeoIP.Timeout)
		fmt.Printf("  Country cache: %s, TTL %s\n", cfg.Cache.Mode, cfg.Cache.TTL)
		fmt.Printf("  LLM model:    %s\n", cfg.LLM.Model)
		fmt.Printf("  Billing:      %s\n", cfg.Billing.Mode)
		fmt.Println("\nReloadable without restart:")
		for _, f := range config.ReloadableFields() {
			fmt.Printf("  %s\n", f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
