// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for designation validation.

package validation

import (
	"testing"
)

func TestValidateDesignation(t *testing.T) {
	tests := []struct {
		name        string
		designation string
		wantErr     bool
	}{
		// Valid designations
		{"jis alloy", "A5052", false},
		{"aa alloy", "7075", false},
		{"strain hardened temper", "H32", false},
		{"heat treated temper", "T651", false},
		{"annealed temper", "O", false},
		{"max length", "A123456789", false},

		// Invalid designations - injection attempts and malformed input
		{"empty", "", true},
		{"lowercase", "a5052", true},
		{"too long", "A1234567890", true},
		{"html injection", "<script>", true},
		{"path traversal", "../etc", true},
		{"spaces", "A 5052", true},
		{"hyphen", "A5052-H32", true},
		{"unicode", "A5052™", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDesignation(tt.designation)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDesignation(%q) error = %v, wantErr %v", tt.designation, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeDesignation(t *testing.T) {
	tests := []struct {
		name        string
		designation string
		want        string
		wantErr     bool
	}{
		{"uppercase passthrough", "A5052", "A5052", false},
		{"lowercase normalized", "h32", "H32", false},
		{"mixed case", "t6", "T6", false},
		{"with spaces trimmed", "  A6061  ", "A6061", false},
		{"invalid rejected", "bad!", "", true},
		{"empty rejected", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeDesignation(tt.designation)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeDesignation(%q) error = %v, wantErr %v", tt.designation, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeDesignation(%q) = %q, want %q", tt.designation, got, tt.want)
			}
		})
	}
}
