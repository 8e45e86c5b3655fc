package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint derives the visitor dedup key from a client IP. The raw IP is
// never persisted; only this one-way hash is stored with the click record.
func Fingerprint(ip string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(ip)))
	return hex.EncodeToString(sum[:])
}

// FirstForwardedIP extracts the client IP from an X-Forwarded-For style
// header value. Proxies append to the list, so the first entry is the
// original client.
func FirstForwardedIP(header string) string {
	if header == "" {
		return ""
	}
	if idx := strings.Index(header, ","); idx >= 0 {
		header = header[:idx]
	}
	return strings.TrimSpace(header)
}

// HasURLScheme reports whether raw starts with a recognized URL scheme.
// Used to validate fallback destinations passed as query parameters.
func HasURLScheme(raw string) bool {
	return strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "http://")
}
