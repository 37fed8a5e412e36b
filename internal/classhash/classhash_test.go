package classhash

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid short", "0x1", false},
		{"valid mixed case", "0x044Dc2b3239382230d8B1e943df23b96F52eebcac93efe6e8bde92f9a2f1da18", false},
		{"valid full length", "0x" + strings.Repeat("a", 64), false},
		{"too long", "0x" + strings.Repeat("a", 65), true},
		{"missing prefix", "044dc2b3", true},
		{"bare prefix", "0x", true},
		{"non-hex", "0xzz12", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseErrorType(t *testing.T) {
	_, err := Parse("not-a-hash")
	var invalid *InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("Parse error = %T, want *InvalidError", err)
	}
	if invalid.Input != "not-a-hash" {
		t.Errorf("InvalidError.Input = %q", invalid.Input)
	}
}

func TestNormalized(t *testing.T) {
	h, err := Parse("0x1A")
	if err != nil {
		t.Fatal(err)
	}

	want := "0x" + strings.Repeat("0", 62) + "1a"
	if got := h.Normalized(); got != want {
		t.Errorf("Normalized() = %q, want %q", got, want)
	}

	// String keeps the input as supplied.
	if h.String() != "0x1A" {
		t.Errorf("String() = %q", h.String())
	}
}

func TestNormalizedFullLength(t *testing.T) {
	raw := "0x" + strings.Repeat("A", 64)
	h, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got := h.Normalized(); got != "0x"+strings.Repeat("a", 64) {
		t.Errorf("Normalized() = %q", got)
	}
}
