// Package pricing provides the static plan catalog and localization logic.
package pricing

import "math"

// Currency constants for the binary localization rule.
const (
	CurrencyUSD = "USD"
	CurrencyINR = "INR"

	SymbolUSD = "$"
	SymbolINR = "₹"

	// MultiplierINR converts USD base prices to INR display prices.
	MultiplierINR = 90.0
)

// Plan is a static pricing tier (immutable value type).
type Plan struct {
	Name       string
	Subheading string
	PriceUSD   float64
	Period     string
	SavingsPct int // 0 = no savings badge
}

// LocalizedPlan is a Plan plus its computed display price.
type LocalizedPlan struct {
	Plan
	LocalizedPrice float64
}

// Catalog groups plans by product. Defined in source, never mutated at
// runtime.
type Catalog map[string][]Plan

// DefaultCatalog returns the plan catalog shown on the pricing page.
func DefaultCatalog() Catalog {
	return Catalog{
		"bundle": {
			{Name: "Monthly", Subheading: "FoundryOS + LaunchOS", PriceUSD: 42, Period: "month"},
			{Name: "Yearly", Subheading: "FoundryOS + LaunchOS", PriceUSD: 420, Period: "year", SavingsPct: 17},
		},
		"foundry": {
			{Name: "FoundryOS", Subheading: "Validate and build your idea", PriceUSD: 24, Period: "month"},
		},
		"launch": {
			{Name: "LaunchOS", Subheading: "Go to market with confidence", PriceUSD: 24, Period: "month"},
		},
	}
}

// CurrencyFor selects the display currency for a country code. Exactly one
// special case: "IN" gets INR pricing; every other code (including unknown)
// is USD-priced.
// This is a PURE function.
func CurrencyFor(country string) (currency, symbol string, multiplier float64) {
	if country == "IN" {
		return CurrencyINR, SymbolINR, MultiplierINR
	}
	return CurrencyUSD, SymbolUSD, 1
}

// Localize maps plans to localized plans by applying the currency
// multiplier. Prices round to two decimal places via integer cents, so no
// fractional cents survive float math.
// This is a PURE function.
func Localize(plans []Plan, multiplier float64) []LocalizedPlan {
	out := make([]LocalizedPlan, len(plans))
	for i, p := range plans {
		out[i] = LocalizedPlan{
			Plan:           p,
			LocalizedPrice: math.Round(p.PriceUSD*multiplier*100) / 100,
		}
	}
	return out
}

// LocalizeCatalog localizes every plan group in the catalog.
// This is a PURE function.
func LocalizeCatalog(c Catalog, multiplier float64) map[string][]LocalizedPlan {
	out := make(map[string][]LocalizedPlan, len(c))
	for group, plans := range c {
		out[group] = Localize(plans, multiplier)
	}
	return out
}
