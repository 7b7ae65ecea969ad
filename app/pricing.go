// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aviatehq/aviate/domain/geo"
	"github.com/aviatehq/aviate/domain/pricing"
	"github.com/aviatehq/aviate/ports"
	"github.com/rs/zerolog"
)

// countryHeaders are edge/CDN-provided country headers, scanned in order.
var countryHeaders = []string{
	"Cf-Ipcountry",        // Cloudflare
	"X-Vercel-Ip-Country", // Vercel
	"X-Country-Code",      // generic
}

// PricingService resolves a display currency and localized price list for a
// request.
type PricingService struct {
	cache   ports.CountryCache
	geo     ports.GeoLookup
	catalog pricing.Catalog
	logger  zerolog.Logger
}

// PricingDeps contains dependencies for PricingService.
type PricingDeps struct {
	Cache  ports.CountryCache
	Geo    ports.GeoLookup
	Logger zerolog.Logger
}

// NewPricingService creates a pricing service over the static catalog.
func NewPricingService(deps PricingDeps) *PricingService {
	return &PricingService{
		cache:   deps.Cache,
		geo:     deps.Geo,
		catalog: pricing.DefaultCatalog(),
		logger:  deps.Logger.With().Str("component", "pricing").Logger(),
	}
}

// PricingResult is the fully resolved pricing response.
type PricingResult struct {
	Detection geo.Detection
	Plans     map[string][]pricing.LocalizedPlan
}

// resolver is one tier of the detection chain. It returns the detected
// country or "" for "not my tier".
type resolver struct {
	source geo.Source
	detect func(ctx context.Context, q query) string
}

// query carries the per-request detection inputs.
type query struct {
	override string // raw ?country= value
	headers  http.Header
	clientIP string // "" = no usable IP
}

// Resolve runs the detection chain and localizes the catalog. It never
// fails: any panic degrades to the unlocalized USD table, because the
// pricing page must always render prices.
func (s *PricingService) Resolve(ctx context.Context, r *http.Request) (result PricingResult) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error().Interface("panic", rec).Msg("pricing resolution panicked, serving unlocalized prices")
			result = s.fallback()
		}
	}()

	q := query{
		override: r.URL.Query().Get("country"),
		headers:  r.Header,
		clientIP: geo.ClientIP(r.Header.Get("X-Forwarded-For"), r.Header.Get("X-Real-Ip"), r.RemoteAddr),
	}

	detection := s.detect(ctx, q)
	detection.Currency, detection.Symbol, detection.Multiplier = pricing.CurrencyFor(detection.Country)

	return PricingResult{
		Detection: detection,
		Plans:     pricing.LocalizeCatalog(s.catalog, detection.Multiplier),
	}
}

// detect walks the precedence chain: override, trusted headers, cache, geo
// lookup by IP, generic geo lookup. First hit wins.
func (s *PricingService) detect(ctx context.Context, q query) geo.Detection {
	chain := []resolver{
		{geo.SourceOverride, s.fromOverride},
		{geo.SourceHeader, s.fromHeaders},
		{geo.SourceCache, s.fromCache},
		{geo.SourceIPAPI, s.fromLookup},
		{geo.SourceIPAPIGeneric, s.fromGenericLookup},
	}

	for _, tier := range chain {
		if country := tier.detect(ctx, q); country != "" {
			return geo.Detection{Country: country, Source: tier.source}
		}
	}
	return geo.Detection{Source: geo.SourceNone}
}

func (s *PricingService) fromOverride(ctx context.Context, q query) string {
	return geo.Sanitize(q.override)
}

func (s *PricingService) fromHeaders(ctx context.Context, q query) string {
	for _, h := range countryHeaders {
		if country := geo.Sanitize(q.headers.Get(h)); country != "" {
			return country
		}
	}
	return ""
}

func (s *PricingService) fromCache(ctx context.Context, q query) string {
	if q.clientIP == "" {
		return ""
	}
	country, ok := s.cache.Get(ctx, q.clientIP)
	if !ok {
		return ""
	}
	// A cached "" suppresses the lookup tiers below but still reports
	// "unknown country" overall.
	if country == "" {
		return ""
	}
	return country
}

// cachedMiss reports whether the cache holds a negative entry for the IP,
// which must suppress a fresh lookup within the TTL window.
func (s *PricingService) cachedMiss(ctx context.Context, ip string) bool {
	country, ok := s.cache.Get(ctx, ip)
	return ok && country == ""
}

func (s *PricingService) fromLookup(ctx context.Context, q query) string {
	if q.clientIP == "" {
		return ""
	}
	if s.cachedMiss(ctx, q.clientIP) {
		return ""
	}

	raw, err := s.geo.Country(ctx, q.clientIP)
	if err != nil {
		s.logger.Debug().Err(err).Str("ip", q.clientIP).Msg("geo lookup failed")
	}
	country := geo.Sanitize(raw)

	// Cache regardless of outcome, including failures, so the same IP does
	// not trigger repeated lookups within the TTL window.
	s.cache.Set(ctx, q.clientIP, country)
	return country
}

func (s *PricingService) fromGenericLookup(ctx context.Context, q query) string {
	if q.clientIP != "" {
		return ""
	}
	raw, err := s.geo.Country(ctx, "")
	if err != nil {
		s.logger.Debug().Err(err).Msg("generic geo lookup failed")
	}
	// No key to cache under.
	return geo.Sanitize(raw)
}

// fallback returns the unlocalized USD table.
func (s *PricingService) fallback() PricingResult {
	currency, symbol, multiplier := pricing.CurrencyFor("")
	return PricingResult{
		Detection: geo.Detection{
			Source:     geo.SourceNone,
			Currency:   currency,
			Symbol:     symbol,
			Multiplier: multiplier,
		},
		Plans: pricing.LocalizeCatalog(s.catalog, multiplier),
	}
}

// PlanPriceID maps a catalog plan key to the payment provider price ID.
// Used by the billing checkout flow.
func PlanPriceID(planID string, prices map[string]string) (string, error) {
	id, ok := prices[planID]
	if !ok || id == "" {
		return "", fmt.Errorf("no provider price configured for plan %q", planID)
	}
	return id, nil
}
