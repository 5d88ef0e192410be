package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrConfiguration is returned when the static partition configuration is invalid
	ErrConfiguration = errors.New("invalid configuration")

	// ErrPartitionNotFound is returned when a partition label is not registered
	ErrPartitionNotFound = errors.New("partition not found")

	// ErrPartitionUnavailable is returned when a partition's backing data could not be loaded
	ErrPartitionUnavailable = errors.New("partition unavailable")

	// ErrEmptyQuery is returned when both query fields are empty after normalization
	ErrEmptyQuery = errors.New("empty query")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// ConfigurationError represents a configuration problem detected at startup
type ConfigurationError struct {
	Label   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("configuration error for partition '%s': %s", e.Label, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(label, message string) *ConfigurationError {
	return &ConfigurationError{Label: label, Message: message}
}

// PartitionNotFoundError represents a lookup of an unknown partition label
type PartitionNotFoundError struct {
	Label string
}

func (e *PartitionNotFoundError) Error() string {
	return fmt.Sprintf("partition '%s' not found", e.Label)
}

func (e *PartitionNotFoundError) Is(target error) bool {
	return target == ErrPartitionNotFound
}

// NewPartitionNotFoundError creates a new PartitionNotFoundError
func NewPartitionNotFoundError(label string) *PartitionNotFoundError {
	return &PartitionNotFoundError{Label: label}
}

// LoadError records why a dataset could not be materialized.
// The same LoadError is returned for every later access to that dataset.
type LoadError struct {
	DatasetID string
	Err       error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dataset '%s' is unavailable", e.DatasetID)
	}
	return fmt.Sprintf("dataset '%s' is unavailable: %v", e.DatasetID, e.Err)
}

func (e *LoadError) Is(target error) bool {
	return target == ErrPartitionUnavailable
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError
func NewLoadError(datasetID string, err error) *LoadError {
	return &LoadError{DatasetID: datasetID, Err: err}
}

// EmptyQueryError is raised by the search interaction when neither name field has content
type EmptyQueryError struct{}

func (e *EmptyQueryError) Error() string {
	return "at least one of name or relative name must be provided"
}

func (e *EmptyQueryError) Is(target error) bool {
	return target == ErrEmptyQuery
}

// NewEmptyQueryError creates a new EmptyQueryError
func NewEmptyQueryError() *EmptyQueryError {
	return &EmptyQueryError{}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
