package sqlite

import (
	"context"
	"time"

	"github.com/aviatehq/aviate/ports"
)

// CountryCacheStore implements ports.CountryCache with SQLite, giving
// multiple stateless instances a shared view of detected countries. Same
// semantics as the in-memory cache: eager delete on expired read, negative
// results cached.
type CountryCacheStore struct {
	db    *DB
	ttl   time.Duration
	clock ports.Clock
}

// NewCountryCacheStore creates a shared country cache.
func NewCountryCacheStore(db *DB, ttl time.Duration, clock ports.Clock) *CountryCacheStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CountryCacheStore{db: db, ttl: ttl, clock: clock}
}

// Get returns the cached country for an IP; expired rows are deleted.
func (s *CountryCacheStore) Get(ctx context.Context, ip string) (string, bool) {
	var country string
	var storedAt int64
	err := s.db.DB.QueryRowContext(ctx,
		"SELECT country, stored_at FROM country_cache WHERE ip = ?", ip,
	).Scan(&country, &storedAt)
	if err != nil {
		return "", false
	}

	if s.clock.Now().UnixMilli()-storedAt > s.ttl.Milliseconds() {
		s.db.DB.ExecContext(ctx, "DELETE FROM country_cache WHERE ip = ?", ip)
		return "", false
	}
	return country, true
}

// Set records the country for an IP and prunes expired rows while it is
// here, bounding table growth across long-lived deployments.
func (s *CountryCacheStore) Set(ctx context.Context, ip, country string) {
	now := s.clock.Now().UnixMilli()
	s.db.DB.ExecContext(ctx, `
		INSERT INTO country_cache (ip, country, stored_at) VALUES (?, ?, ?)
		ON CONFLICT(ip) DO UPDATE SET country = excluded.country, stored_at = excluded.stored_at
	`, ip, country, now)
	s.db.DB.ExecContext(ctx,
		"DELETE FROM country_cache WHERE stored_at < ?", now-s.ttl.Milliseconds())
}

// Ensure interface compliance.
var _ ports.CountryCache = (*CountryCacheStore)(nil)
