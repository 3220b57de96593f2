// ABOUTME: Canonical phone key derivation for whitelist and binding lookups
// ABOUTME: Pure text transforms, total over arbitrary input

// Package phone reduces heterogeneous phone number text to a single
// digits-only canonical key. Both ingress paths (admin forms and free-text
// chat messages) go through the same function, so the whitelist and binding
// tables never fragment into unmatched spellings of one number.
package phone

import "strings"

// MinInboundDigits is the floor below which inbound free text is treated as
// conversation rather than a phone submission.
const MinInboundDigits = 7

// Normalize strips every character that is not a decimal digit. An empty
// result means the input carried no digits; callers must reject it before
// any store access. Normalize never fails.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Plausible reports whether a normalized key is long enough to be a phone
// number on the inbound path. Keys below the floor are ignored silently.
func Plausible(key string) bool {
	return len(key) >= MinInboundDigits
}
