package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aviatehq/aviate/domain/geo"
	"github.com/aviatehq/aviate/domain/pricing"
)

var plansCountry string

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Print the pricing catalog",
	Long: `Print the pricing catalog as the API would serve it.

With --country, prices are localized the same way the pricing endpoint
localizes them for a visitor from that country.

Examples:
  aviate plans
  aviate plans --country IN`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code := geo.Sanitize(plansCountry)
		currency, symbol, multiplier := pricing.CurrencyFor(code)

		if code != "" {
			fmt.Printf("Pricing for %s (%s)\n\n", code, currency)
		} else {
			fmt.Printf("Base pricing (%s)\n\n", currency)
		}

		catalog := pricing.DefaultCatalog()
		groups := make([]string, 0, len(catalog))
		for g := range catalog {
			groups = append(groups, g)
		}
		sort.Strings(groups)

		for _, g := range groups {
			fmt.Println(strings.ToUpper(g))
			for _, p := range pricing.Localize(catalog[g], multiplier) {
				line := fmt.Sprintf("  %-10s %s%.0f/%s", p.Name, symbol, p.LocalizedPrice, p.Period)
				if p.SavingsPct > 0 {
					line += fmt.Sprintf("  (save %d%%)", p.SavingsPct)
				}
				fmt.Println(line)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plansCmd)
	plansCmd.Flags().StringVar(&plansCountry, "country", "", "two-letter country code to localize for")
}
