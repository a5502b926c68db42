// Package errors provides standardized error handling for the inventory engines.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDatasetLoadFailed      ErrorCode = "DATASET_LOAD_FAILED"
	ErrCodeDatasetValidationError ErrorCode = "DATASET_VALIDATION_ERROR"

	ErrCodeMedicineNotFound ErrorCode = "MEDICINE_NOT_FOUND"

	ErrCodeForecastInsufficientData ErrorCode = "FORECAST_INSUFFICIENT_DATA"

	ErrCodeReorderPersistFailed ErrorCode = "REORDER_PERSIST_FAILED"
	ErrCodeNotificationFailed   ErrorCode = "NOTIFICATION_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewDatasetLoadFailedError creates a non-retryable dataset load error.
func NewDatasetLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetLoadFailed,
		Message:   "Failed to load dataset",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetValidationError creates a non-retryable record validation error.
func NewDatasetValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetValidationError,
		Message:   "Dataset record failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMedicineNotFoundError creates a non-retryable lookup error.
func NewMedicineNotFoundError(medicine string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMedicineNotFound,
		Message:   "Medicine not present in inventory",
		Details:   fmt.Sprintf("medicine: %s", medicine),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewForecastInsufficientDataError creates a non-retryable forecast error.
func NewForecastInsufficientDataError(drug string, observations int) *StandardError {
	return &StandardError{
		Code:      ErrCodeForecastInsufficientData,
		Message:   "Not enough sales history to forecast",
		Details:   fmt.Sprintf("drug: %s, observations: %d", drug, observations),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReorderPersistFailedError creates a retryable persistence error.
func NewReorderPersistFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReorderPersistFailed,
		Message:   "Failed to persist reorder request",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationFailedError creates a retryable notification error.
func NewNotificationFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationFailed,
		Message:   "Manager notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}
