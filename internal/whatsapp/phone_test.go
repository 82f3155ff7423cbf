package whatsapp_test

import (
	"testing"

	"github.com/axisvitor/sistema-cobranca/internal/whatsapp"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"formatted local number gets country code", "(11) 9999-8888", "551199998888"},
		{"11 digit mobile gets country code", "11 99999-8888", "5511999998888"},
		{"already has country code", "5511999998888", "5511999998888"},
		{"plus and spaces stripped", "+55 11 99999-8888", "5511999998888"},
		{"13 digit number left unchanged", "5511999998888", "5511999998888"},
		{"short landline", "3333-4444", "5533334444"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := whatsapp.NormalizePhone(tc.raw, whatsapp.DefaultCountryCode)
			if got != tc.want {
				t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
