package language

import "testing"

func TestCanonical(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// 2-letter codes convert
		{"en", "eng"},
		{"EN", "eng"},
		{"de", "deu"},
		{"fr", "fra"},
		{"cs", "ces"},
		{"zh", "zho"},
		// 3-letter codes normalize to the primary form
		{"eng", "eng"},
		{"deu", "deu"},
		{"ger", "deu"},
		{"fre", "fra"},
		{"dut", "nld"},
		{"gre", "ell"},
		// Whitespace tolerated
		{" de ", "deu"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := Canonical(tt.input)
			if err != nil {
				t.Fatalf("Canonical(%q) unexpected error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("Canonical(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCanonicalFailsClosed(t *testing.T) {
	for _, input := range []string{"", " ", "xy", "xyz", "english-ish", "00"} {
		t.Run(input, func(t *testing.T) {
			if got, err := Canonical(input); err == nil {
				t.Fatalf("Canonical(%q) = %q, want error", input, got)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"deu", "German"},
		{"ger", "German"},
		{"xx", "XX"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
