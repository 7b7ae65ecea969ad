// Package geo provides country detection value types and pure functions.
package geo

import (
	"net"
	"strings"
)

// Source identifies which tier of the detection chain supplied the country.
type Source string

const (
	SourceOverride     Source = "override"      // Explicit ?country= query param
	SourceHeader       Source = "header"        // Edge/CDN country header
	SourceCache        Source = "cache"         // TTL cache hit
	SourceIPAPI        Source = "ipapi"         // Geo lookup by client IP
	SourceIPAPIGeneric Source = "ipapi-generic" // Geo lookup without an IP
	SourceNone         Source = "none"          // Detection failed entirely
)

// Detection is the outcome of running the country detection chain.
// Immutable after construction.
type Detection struct {
	Country    string // "" = unknown
	Source     Source
	Currency   string
	Symbol     string
	Multiplier float64
}

// Sanitize normalizes an arbitrary string into a canonical ISO-3166 alpha-2
// code. It extracts the first run of two consecutive alphabetic characters
// and uppercases it; "" if no such run exists. Every code path (query
// override, header, geo API response) passes through here before being
// trusted.
// This is a PURE function.
func Sanitize(raw string) string {
	for i := 0; i+1 < len(raw); i++ {
		if isAlpha(raw[i]) && isAlpha(raw[i+1]) {
			return strings.ToUpper(raw[i : i+2])
		}
	}
	return ""
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ClientIP derives a best-effort origin IP from proxy headers and the
// connection remote address. Precedence: first X-Forwarded-For entry,
// X-Real-Ip, then the remote address. IPv4-mapped IPv6 prefixes are
// stripped and loopback addresses collapse to "" (local traffic has no
// meaningful geography).
// This is a PURE function.
func ClientIP(forwardedFor, realIP, remoteAddr string) string {
	ip := ""
	if forwardedFor != "" {
		ip = strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}
	if ip == "" {
		ip = strings.TrimSpace(realIP)
	}
	if ip == "" {
		ip = remoteAddr
		// RemoteAddr usually carries a port.
		if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
			ip = host
		}
	}

	ip = strings.TrimPrefix(ip, "::ffff:")

	switch ip {
	case "::1", "127.0.0.1", "::", "":
		return ""
	}
	return ip
}
