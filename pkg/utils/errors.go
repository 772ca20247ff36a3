package utils

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingColumns     = errors.New("required columns missing")
	ErrDuplicatePlayer    = errors.New("duplicate player in slate")
	ErrOptimizationFailed = errors.New("optimization failed")
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewAppError(code string, message string, details ...string) *AppError {
	err := &AppError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeDataIntegrity = "DATA_INTEGRITY_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeOptimization  = "OPTIMIZATION_ERROR"
)

// IsDataIntegrity reports whether err means an input table itself is unusable.
func IsDataIntegrity(err error) bool {
	return errors.Is(err, ErrMissingColumns) || errors.Is(err, ErrDuplicatePlayer)
}

// Classify maps an error to the AppError code returned over HTTP.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case IsDataIntegrity(err):
		return ErrCodeDataIntegrity
	case errors.Is(err, ErrInvalidInput):
		return ErrCodeValidation
	case errors.Is(err, ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, ErrOptimizationFailed):
		return ErrCodeOptimization
	default:
		return ErrCodeInternal
	}
}
