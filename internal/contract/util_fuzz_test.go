package contract

import (
	"testing"
)

// FuzzParseDuration fuzzes ParseDuration with random strings.
func FuzzParseDuration(f *testing.F) {
	seeds := []string{"10 days", "240h", "1 year", "0 days", "-5h", "", "3 MONTHS", "99999999999 years"}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		d, err := ParseDuration(s)
		if err == nil && d <= 0 {
			t.Errorf("ParseDuration(%q) = %v without error", s, d)
		}
	})
}

// FuzzParseTimestamp fuzzes ParseTimestamp with random strings.
func FuzzParseTimestamp(f *testing.F) {
	seeds := []string{"2024-01-05", "2024-01-05T10:30:00Z", "1704067200", "", "not a time"}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, s string) {
		_, _ = ParseTimestamp(s)
	})
}
