package utils

import (
	"regexp"
	"testing"
)

func TestGenerateOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{9}$`)

	num := GenerateOrderNumber()
	if !pattern.MatchString(num) {
		t.Errorf("Order number should be 9 digits, got %q", num)
	}
}

func TestGenerateInvoiceNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^F\d{4}-\d{8}$`)

	num := GenerateInvoiceNumber()
	if !pattern.MatchString(num) {
		t.Errorf("Invoice number should match FYYYY-XXXXXXXX, got %q", num)
	}
}

func TestGenerateConfirmationToken(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{64}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateConfirmationToken()
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}
		if !pattern.MatchString(token) {
			t.Fatalf("Token should be 64 hex chars, got %q", token)
		}
		if seen[token] {
			t.Fatal("Tokens must not repeat")
		}
		seen[token] = true
	}
}
