package utils

import (
	"testing"
	"time"
)

func TestMonthIndex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "january", input: "January", expected: 1},
		{name: "december", input: "December", expected: 12},
		{name: "case insensitive", input: "august", expected: 8},
		{name: "unknown", input: "Smarch", expected: 0},
		{name: "empty", input: "", expected: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := MonthIndex(tc.input); got != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestIsValidMonth(t *testing.T) {
	if !IsValidMonth("February") {
		t.Fatal("February should be valid")
	}
	if IsValidMonth("Februari") {
		t.Fatal("misspelled month should be invalid")
	}
}

func TestCurrentPeriod(t *testing.T) {
	month, year := CurrentPeriod(time.Date(2026, time.December, 31, 23, 59, 0, 0, time.UTC))
	if month != "December" || year != 2026 {
		t.Fatalf("expected December 2026, got %s %d", month, year)
	}
}

func TestGenerateOTP(t *testing.T) {
	otp, err := GenerateOTP()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(otp) != 6 {
		t.Fatalf("expected 6 digits, got %q", otp)
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			t.Fatalf("expected only digits, got %q", otp)
		}
	}
}

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckPassword("hunter22", hash); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := CheckPassword("hunter23", hash); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestStatusValidators(t *testing.T) {
	if !IsValidVoucherStatus("Pending") || !IsValidVoucherStatus("Paid") {
		t.Fatal("known voucher statuses should be valid")
	}
	if IsValidVoucherStatus("Overdue") {
		t.Fatal("Overdue should be invalid")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00world  "); got != "helloworld" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}
