// Package memory provides in-process implementations of storage ports.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aviatehq/aviate/ports"
)

// DefaultCountryTTL is how long a detected country stays valid for an IP.
const DefaultCountryTTL = time.Hour

type countryEntry struct {
	country string
	storedAt time.Time
}

// CountryCache is an in-memory implementation of ports.CountryCache.
// Entries expire eagerly: reading a stale entry deletes it, which bounds
// memory growth for IPs that stop recurring. There is no further eviction
// policy; cardinality is acceptable for short-lived processes.
type CountryCache struct {
	mu      sync.Mutex
	entries map[string]countryEntry
	ttl     time.Duration
	clock   ports.Clock
}

// NewCountryCache creates a country cache with the given TTL and clock.
// A zero ttl falls back to DefaultCountryTTL.
func NewCountryCache(ttl time.Duration, clock ports.Clock) *CountryCache {
	if ttl <= 0 {
		ttl = DefaultCountryTTL
	}
	return &CountryCache{
		entries: make(map[string]countryEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns the cached country for an IP. Expired entries are deleted and
// reported as a miss. A cached "" country is a valid hit (negative cache).
func (c *CountryCache) Get(ctx context.Context, ip string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[ip]
	if !ok {
		return "", false
	}
	if c.clock.Now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, ip)
		return "", false
	}
	return e.country, true
}

// Set records the country for an IP at the current time.
func (c *CountryCache) Set(ctx context.Context, ip, country string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ip] = countryEntry{country: country, storedAt: c.clock.Now()}
}

// Len returns the number of live entries (for testing).
func (c *CountryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Ensure interface compliance.
var _ ports.CountryCache = (*CountryCache)(nil)
