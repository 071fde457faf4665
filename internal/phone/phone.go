// internal/phone/phone.go
package phone

import (
	"regexp"
	"strings"
)

// CountryCode is the channel's country-code prefix (Brazil).
const CountryCode = "55"

// Valid canonical lengths for Brazilian numbers: DDD + 8 or 9 digits.
const (
	MinDigits = 10
	MaxDigits = 11
)

var nonDigits = regexp.MustCompile(`\D`)

// Normalize reduces a raw phone-like identifier to its canonical national
// form: every non-digit stripped, one leading country-code prefix removed.
func Normalize(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	return strings.TrimPrefix(digits, CountryCode)
}

// Valid reports whether a canonical number has an acceptable length.
func Valid(canonical string) bool {
	return len(canonical) >= MinDigits && len(canonical) <= MaxDigits
}

// WithCountryCode re-applies the country-code prefix to a canonical number,
// producing the wire format expected by the delivery provider.
func WithCountryCode(canonical string) string {
	return CountryCode + canonical
}
