// ABOUTME: Unit tests for canonical phone key derivation
// ABOUTME: Covers digit stripping, equivalence of spellings, and the length floor

package phone

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain digits", "12345678900", "12345678900"},
		{"international punctuation", "+1 (234) 567-8900", "12345678900"},
		{"dots and dashes", "012.345.67-89", "0123456789"},
		{"leading zero preserved", "01234567890", "01234567890"},
		{"whitespace only", "   \t\n", ""},
		{"no digits", "call me maybe", ""},
		{"digits embedded in words", "my number is 5551234", "5551234"},
		{"empty", "", ""},
		{"unicode symbols", "☎ +20-100-123-4567", "201001234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_EquivalentSpellings(t *testing.T) {
	a := Normalize("+1 (234) 567-8900")
	b := Normalize("12345678900")
	if a != b {
		t.Errorf("spellings of the same number produced distinct keys: %q vs %q", a, b)
	}
}

func TestPlausible(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"1234567", true},
		{"123456", false},
		{"", false},
		{"201001234567", true},
	}

	for _, tt := range tests {
		if got := Plausible(tt.key); got != tt.want {
			t.Errorf("Plausible(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
