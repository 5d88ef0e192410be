package api

import (
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-voter-search/internal/textnorm"
)

// maxQueryLength bounds each name input, in characters.
const maxQueryLength = 200

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidatePartitionLabel checks that a partition was chosen.
func ValidatePartitionLabel(label string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if textnorm.IsBlank(label) {
		result.AddError("partition", "Partition is required")
	}

	return result
}

// ValidateSearchRequest checks the shape of a search request. Whether the names are
// blank is decided by the engine, which owns normalization.
func ValidateSearchRequest(req *SearchRequest) *ValidationResult {
	result := ValidatePartitionLabel(req.Partition)

	if utf8.RuneCountInString(req.Name) > maxQueryLength {
		result.AddError("name", "Name cannot be longer than 200 characters")
	}
	if utf8.RuneCountInString(req.RelativeName) > maxQueryLength {
		result.AddError("relative_name", "Relative name cannot be longer than 200 characters")
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
