package phone_test

import (
	"testing"

	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/phone"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"(11) 98765-4321", "11987654321"},
		{"+55 11 98765-4321", "11987654321"},
		{"5511987654321", "11987654321"},
		{"11 8765-4321", "1187654321"},
		{"abc", ""},
	}

	for _, c := range cases {
		if got := phone.Normalize(c.raw); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestValid(t *testing.T) {
	if phone.Valid("123456789") { // 9 digits
		t.Error("expected 9 digits to be invalid")
	}
	if !phone.Valid("1187654321") { // 10 digits
		t.Error("expected 10 digits to be valid")
	}
	if !phone.Valid("11987654321") { // 11 digits
		t.Error("expected 11 digits to be valid")
	}
	if phone.Valid("119876543210") { // 12 digits
		t.Error("expected 12 digits to be invalid")
	}
}

func TestWithCountryCode(t *testing.T) {
	if got := phone.WithCountryCode("11987654321"); got != "5511987654321" {
		t.Errorf("expected 5511987654321, got %s", got)
	}
}

// Re-prefixing a canonical number and normalizing again must be a fixed
// point: reprefix(normalize(x)) == reprefix(normalize(reprefix(normalize(x)))).
func TestNormalizeReprefixIdempotent(t *testing.T) {
	inputs := []string{
		"(11) 98765-4321",
		"+55 11 98765-4321",
		"5511987654321",
		"11987654321",
		"21 1234-5678",
	}
	for _, x := range inputs {
		once := phone.WithCountryCode(phone.Normalize(x))
		twice := phone.WithCountryCode(phone.Normalize(once))
		if once != twice {
			t.Errorf("not idempotent for %q: %q vs %q", x, once, twice)
		}
	}
}
