package model

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateLead_Name(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrInvalidName},
		{"whitespace only", "   \t ", ErrInvalidName},
		{"single char", "A", nil},
		{"exactly 80 chars", strings.Repeat("a", 80), nil},
		{"81 chars", strings.Repeat("a", 81), ErrInvalidName},
		{"81 chars after trim", "  " + strings.Repeat("a", 81) + "  ", ErrInvalidName},
		{"80 multibyte runes", strings.Repeat("é", 80), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ValidateLead(tt.input, "ana@x.com")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateLead(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLead_Email(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"minimal valid", "a@b.co", nil},
		{"plain word", "not-an-email", ErrInvalidEmail},
		{"missing domain dot", "a@bco", ErrInvalidEmail},
		{"missing local part", "@b.co", ErrInvalidEmail},
		{"two at signs", "a@b@c.co", ErrInvalidEmail},
		{"embedded space", "a b@c.co", ErrInvalidEmail},
		{"empty", "", ErrInvalidEmail},
		{"exactly 120 chars", strings.Repeat("a", 115) + "@b.co", nil},
		{"121 chars", strings.Repeat("a", 116) + "@b.co", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ValidateLead("Ana", tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateLead(email=%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLead_Normalization(t *testing.T) {
	name, email, err := ValidateLead("  Ana Souza  ", "  Ana.Souza@Example.COM  ")
	if err != nil {
		t.Fatalf("ValidateLead error: %v", err)
	}
	if name != "Ana Souza" {
		t.Errorf("name = %q, want %q", name, "Ana Souza")
	}
	if email != "ana.souza@example.com" {
		t.Errorf("email = %q, want %q", email, "ana.souza@example.com")
	}
}

func TestValidateLead_NameCheckedFirst(t *testing.T) {
	// Both fields invalid: the name error wins.
	_, _, err := ValidateLead("", "not-an-email")
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("error = %v, want ErrInvalidName", err)
	}
}
