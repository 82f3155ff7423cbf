package whatsapp

import "strings"

// DefaultCountryCode is prepended to short numbers (Brazil).
const DefaultCountryCode = "55"

// NormalizePhone strips every non-digit character from raw. Numbers with at
// most 11 digits (local DDD + subscriber) get the country code prepended;
// longer numbers are assumed to carry their own country code already.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) <= 11 {
		return countryCode + digits
	}
	return digits
}
