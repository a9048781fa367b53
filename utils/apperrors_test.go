package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{
			name:     "mysql duplicate entry",
			err:      &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'idx'"},
			expected: true,
		},
		{
			name:     "wrapped mysql duplicate entry",
			err:      fmt.Errorf("create: %w", &mysql.MySQLError{Number: 1062}),
			expected: true,
		},
		{
			name:     "mysql access denied",
			err:      &mysql.MySQLError{Number: 1045, Message: "Access denied"},
			expected: false,
		},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, expected: true},
		{
			name:     "sqlite unique constraint",
			err:      errors.New("UNIQUE constraint failed: students.email"),
			expected: true,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:3306: connect: connection refused"),
			expected: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicateKeyError(tc.err); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}
