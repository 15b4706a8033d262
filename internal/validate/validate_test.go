package validate

import (
	"strings"
	"testing"
)

func TestOrgSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"pd-1", true},
		{"spanish-fork-pd", true},
		{"abc", true},
		{"a_b", true},
		{"0rg-99", true},
		{strings.Repeat("a", 63), true},
		{"", false},
		{"PD", false},
		{"pd", false},                         // too short
		{"-pd-", false},                       // leading/trailing hyphen
		{"pd-", false},                        // trailing hyphen
		{"_pd", false},                        // leading underscore
		{"Spanish-Fork", false},               // uppercase
		{"pd 1", false},                       // space
		{"pd/1", false},                       // path character
		{"../etc", false},                     // traversal attempt
		{strings.Repeat("a", 64), false},      // too long
		{"a" + strings.Repeat("-", 61) + "a", true},
	}

	for _, tt := range tests {
		if got := OrgSlug(tt.slug); got != tt.want {
			t.Errorf("OrgSlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}

func TestReportID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"0199a1b2-3c4d-7e5f-8a9b-0c1d2e3f4a5b", true},
		{"0199A1B2-3C4D-7E5F-8A9B-0C1D2E3F4A5B", true}, // case-insensitive
		{"550e8400-e29b-41d4-a716-446655440000", true},
		{"", false},
		{"0199a1b2", false},
		{"0199a1b2-3c4d-7e5f-8a9b-0c1d2e3f4a5", false},   // too short
		{"0199a1b2-3c4d-7e5f-8a9b-0c1d2e3f4a5bc", false}, // too long
		{"0199a1b2_3c4d_7e5f_8a9b_0c1d2e3f4a5b", false},  // wrong separators
		{"g199a1b2-3c4d-7e5f-8a9b-0c1d2e3f4a5b", false},  // non-hex
		{"0199a1b23c4d-7e5f-8a9b-0c1d2e3f4a5bff", false}, // dash positions
	}

	for _, tt := range tests {
		if got := ReportID(tt.id); got != tt.want {
			t.Errorf("ReportID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestCredential(t *testing.T) {
	tests := []struct {
		cred string
		want bool
	}{
		{"x", true},
		{"demo2026", true},
		{strings.Repeat("p", 100), true},
		{"", false},
		{strings.Repeat("p", 101), false},
	}

	for _, tt := range tests {
		if got := Credential(tt.cred); got != tt.want {
			t.Errorf("Credential(len %d) = %v, want %v", len(tt.cred), got, tt.want)
		}
	}
}
