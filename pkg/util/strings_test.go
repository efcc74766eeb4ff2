package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback string
		want     string
	}{
		{"simple", "My Dashboard", "dashboard", "my-dashboard"},
		{"punctuation collapsed", "prod // checkout (p99)", "monitor", "prod-checkout-p99"},
		{"already clean", "billing", "x", "billing"},
		{"unicode stripped", "café überwachung", "x", "caf-berwachung"},
		{"empty falls back", "", "monitor", "monitor"},
		{"only punctuation falls back", "///", "slo", "slo"},
		{"surrounding whitespace", "  edge cache  ", "x", "edge-cache"},
		{"no trailing hyphen", "alerts!", "x", "alerts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input, tt.fallback); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Errorf("Truncate = %q, want %q", got, "abc...")
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("Truncate = %q, want unchanged", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Errorf("Truncate with max 0 = %q, want unchanged", got)
	}
}
