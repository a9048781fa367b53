package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateOTP returns a 6-digit one-time passcode.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// MonthName returns the English month name for a time.Month.
func MonthName(m time.Month) string {
	return m.String()
}

// MonthIndex maps an English month name to its 1-based index, 0 when unknown.
func MonthIndex(name string) int {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return int(m)
		}
	}
	return 0
}

// IsValidMonth reports whether name is an English month name.
func IsValidMonth(name string) bool {
	return MonthIndex(name) != 0
}

// CurrentPeriod returns the (month name, year) pair for now.
func CurrentPeriod(now time.Time) (string, int) {
	return MonthName(now.Month()), now.Year()
}

// IsValidVoucherStatus checks if a voucher status is valid
func IsValidVoucherStatus(status string) bool {
	validStatuses := []string{"Pending", "Unpaid", "Paid"}
	for _, valid := range validStatuses {
		if status == valid {
			return true
		}
	}
	return false
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return strings.TrimSpace(input)
}
