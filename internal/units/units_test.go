package units

import (
	"testing"
)

func TestFactor(t *testing.T) {
	tests := []struct {
		name     string
		prefix   Prefix
		expected float64
	}{
		{"no prefix", None, 1},
		{"nano", Nano, 1e-9},
		{"micro", Micro, 1e-6},
		{"milli", Milli, 1e-3},
		{"kilo", Kilo, 1e3},
		{"mega", Mega, 1e6},
		{"unknown prefix defaults to 1", Prefix("G"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Factor(tt.prefix); got != tt.expected {
				t.Errorf("Factor(%q) = %g, want %g", tt.prefix, got, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		prefix   Prefix
		expected bool
	}{
		{"valid milli", Milli, true},
		{"valid mega", Mega, true},
		{"empty prefix is the identity", None, true},
		{"invalid prefix", Prefix("G"), false},
		{"case sensitive", Prefix("K"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.prefix); got != tt.expected {
				t.Errorf("IsValid(%q) = %v, want %v", tt.prefix, got, tt.expected)
			}
		})
	}
}
