package utils

import (
	"strings"
	"testing"
)

func TestValidatePIN(t *testing.T) {
	tests := []struct {
		pin      string
		expected bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},   // too short
		{"1234567", false}, // too long
		{"12345a", false},
		{"", false},
		{"١٢٣٤٥٦", false}, // non-ASCII digits
	}

	for _, test := range tests {
		if result := ValidatePIN(test.pin); result != test.expected {
			t.Errorf("ValidatePIN(%q) = %v, expected %v", test.pin, result, test.expected)
		}
	}
}

func TestHashPIN(t *testing.T) {
	hash, err := HashPIN("424242")
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	if hash == "424242" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}
	if _, err := HashPIN("4242"); err == nil {
		t.Fatal("expected short pin to be rejected")
	}
}

func TestPINMatches(t *testing.T) {
	hash, err := HashPIN("424242")
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	if !PINMatches(hash, "424242") {
		t.Fatal("expected the hashed PIN to match")
	}
	if PINMatches(hash, "424243") {
		t.Fatal("expected a different PIN not to match")
	}
	if PINMatches("", "") {
		t.Fatal("an unset PIN must never match")
	}
	if PINMatches(hash, "") {
		t.Fatal("an empty PIN must never match")
	}
	if PINMatches("424242", "424242") {
		t.Fatal("a plaintext value is not a valid hash")
	}
}
