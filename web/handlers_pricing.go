package web

import (
	"net/http"

	"github.com/aviatehq/aviate/domain/geo"
	"github.com/aviatehq/aviate/domain/pricing"
	"github.com/aviatehq/aviate/domain/workflow"
)

type localizedPlanJSON struct {
	Name           string  `json:"name"`
	Subheading     string  `json:"subheading"`
	Price          float64 `json:"price"`
	Period         string  `json:"period"`
	Savings        int     `json:"savings,omitempty"`
	LocalizedPrice float64 `json:"localizedPrice"`
}

type pricingResponse struct {
	CountryCode     *string                        `json:"countryCode"` // null when unknown
	DetectionSource string                         `json:"detectionSource"`
	Currency        string                         `json:"currency"`
	Symbol          string                         `json:"symbol"`
	Multiplier      float64                        `json:"multiplier"`
	Plans           map[string][]localizedPlanJSON `json:"plans"`
}

// Pricing returns the localized plan table for the caller's detected
// country. Always 200: detection failures degrade to USD pricing.
func (h *Handler) Pricing(w http.ResponseWriter, r *http.Request) {
	result := h.pricing.Resolve(r.Context(), r)

	if h.metrics != nil {
		h.metrics.DetectionsTotal.WithLabelValues(string(result.Detection.Source)).Inc()
		switch result.Detection.Source {
		case geo.SourceCache:
			h.metrics.CacheHits.Inc()
		case geo.SourceIPAPI, geo.SourceIPAPIGeneric, geo.SourceNone:
			h.metrics.CacheMisses.Inc()
		}
	}

	resp := pricingResponse{
		DetectionSource: string(result.Detection.Source),
		Currency:        result.Detection.Currency,
		Symbol:          result.Detection.Symbol,
		Multiplier:      result.Detection.Multiplier,
		Plans:           make(map[string][]localizedPlanJSON, len(result.Plans)),
	}
	if result.Detection.Country != "" {
		resp.CountryCode = &result.Detection.Country
	}
	for group, plans := range result.Plans {
		resp.Plans[group] = toPlanJSON(plans)
	}

	respondJSON(w, http.StatusOK, resp)
}

func toPlanJSON(plans []pricing.LocalizedPlan) []localizedPlanJSON {
	out := make([]localizedPlanJSON, len(plans))
	for i, p := range plans {
		out[i] = localizedPlanJSON{
			Name:           p.Name,
			Subheading:     p.Subheading,
			Price:          p.PriceUSD,
			Period:         p.Period,
			Savings:        p.SavingsPct,
			LocalizedPrice: p.LocalizedPrice,
		}
	}
	return out
}

type stageJSON struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PromptHint  string `json:"promptHint"`
}

type productJSON struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Tag    string      `json:"tag"`
	Stages []stageJSON `json:"stages"`
}

// Products returns the guided-workflow catalog.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	products := workflow.Products()
	out := make([]productJSON, len(products))
	for i, p := range products {
		stages := make([]stageJSON, len(p.Stages))
		for j, s := range p.Stages {
			stages[j] = stageJSON{Slug: s.Slug, Title: s.Title, Description: s.Description, PromptHint: s.PromptHint}
		}
		out[i] = productJSON{ID: p.ID, Name: p.Name, Tag: p.Tag, Stages: stages}
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": out})
}
