package utils

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AppError is the error type surfaced by the service layer. The global
// fiber error handler renders it as {"success":false,"status":...,"message":...}.
type AppError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

// NotFound signals a missing Student/Room/Fee/Voucher.
func NotFound(message string) *AppError {
	return NewAppError(fiber.StatusNotFound, message)
}

// Conflict signals duplicate or unavailable resources (duplicate room
// number, duplicate fee period, room unavailable, voucher already exists).
func Conflict(message string) *AppError {
	return NewAppError(fiber.StatusConflict, message)
}

// InvalidState signals an operation attempted against an entity in the
// wrong state (e.g. generating a voucher for a roomless student).
func InvalidState(message string) *AppError {
	return NewAppError(fiber.StatusUnprocessableEntity, message)
}

func BadRequest(message string) *AppError {
	return NewAppError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return NewAppError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return NewAppError(fiber.StatusForbidden, message)
}

func Internal(message string) *AppError {
	return NewAppError(fiber.StatusInternalServerError, message)
}

// IsDuplicateKeyError reports whether err is a unique-constraint
// violation, as opposed to some other database failure. MySQL error
// 1062 in production; the string check covers SQLite.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
