package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("203.0.113.7")

	// Stable for the same input, 64 hex chars, and never the raw IP.
	assert.Equal(t, fp, Fingerprint("203.0.113.7"))
	assert.Len(t, fp, 64)
	assert.NotContains(t, fp, "203.0.113.7")

	// Whitespace around the IP does not change the hash.
	assert.Equal(t, fp, Fingerprint("  203.0.113.7 "))

	assert.NotEqual(t, fp, Fingerprint("203.0.113.8"))
}

func TestFirstForwardedIP(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"203.0.113.7", "203.0.113.7"},
		{"203.0.113.7, 10.0.0.1", "203.0.113.7"},
		{" 203.0.113.7 , 10.0.0.1, 10.0.0.2", "203.0.113.7"},
		{"2001:db8::1, 10.0.0.1", "2001:db8::1"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FirstForwardedIP(c.header), "header %q", c.header)
	}
}

func TestHasURLScheme(t *testing.T) {
	assert.True(t, HasURLScheme("https://example.com"))
	assert.True(t, HasURLScheme("http://example.com"))
	assert.False(t, HasURLScheme("example.com"))
	assert.False(t, HasURLScheme("javascript:alert(1)"))
	assert.False(t, HasURLScheme("ftp://example.com"))
	assert.False(t, HasURLScheme(""))
}

func TestStartOfUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	// 02:30 on July 2nd at UTC+5 is still July 1st in UTC.
	local := time.Date(2026, 7, 2, 2, 30, 0, 0, loc)

	start := StartOfUTCDay(local)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), start)

	noon := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), StartOfUTCDay(noon))
}
