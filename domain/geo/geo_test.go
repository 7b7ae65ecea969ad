package geo

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "in", "IN"},
		{"padded", " in ", "IN"},
		{"uppercase", "US", "US"},
		{"three letters takes first two", "USA", "US"},
		{"digits only", "123", ""},
		{"empty", "", ""},
		{"single letter", "a", ""},
		{"letters after digits", "12fr", "FR"},
		{"mixed case", "De", "DE"},
		{"letters split by digit", "a1b", ""},
		{"punctuation wrapped", "(gb)", "GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		realIP       string
		remoteAddr   string
		want         string
	}{
		{"forwarded-for wins", "203.0.113.5", "198.51.100.1", "192.0.2.1:1234", "203.0.113.5"},
		{"forwarded-for first entry", "203.0.113.5, 10.0.0.1", "", "", "203.0.113.5"},
		{"forwarded-for trims spaces", "  203.0.113.5 , 10.0.0.1", "", "", "203.0.113.5"},
		{"real-ip fallback", "", "198.51.100.1", "192.0.2.1:1234", "198.51.100.1"},
		{"remote addr strips port", "", "", "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr without port", "", "", "192.0.2.1", "192.0.2.1"},
		{"ipv4-mapped prefix stripped", "::ffff:203.0.113.5", "", "", "203.0.113.5"},
		{"ipv6 loopback is unknown", "", "", "[::1]:5000", ""},
		{"ipv4 loopback is unknown", "127.0.0.1", "", "", ""},
		{"mapped loopback is unknown", "::ffff:127.0.0.1", "", "", ""},
		{"unspecified is unknown", "::", "", "", ""},
		{"nothing", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClientIP(tt.forwardedFor, tt.realIP, tt.remoteAddr)
			if got != tt.want {
				t.Errorf("ClientIP(%q, %q, %q) = %q, want %q",
					tt.forwardedFor, tt.realIP, tt.remoteAddr, got, tt.want)
			}
		})
	}
}
