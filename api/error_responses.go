package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-voter-search/internal/errors"
	"github.com/gcbaptista/go-voter-search/internal/report"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidJSON       ErrorCode = "INVALID_JSON"
	ErrorCodeEmptyQuery        ErrorCode = "EMPTY_QUERY"
	ErrorCodePartitionNotFound ErrorCode = "PARTITION_NOT_FOUND"

	// Server Error Codes (5xx)
	ErrorCodeInternalError        ErrorCode = "INTERNAL_ERROR"
	ErrorCodePartitionUnavailable ErrorCode = "PARTITION_UNAVAILABLE"
	ErrorCodeSearchCancelled      ErrorCode = "SEARCH_CANCELLED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response.
// Level tells a front end how to style Message, matching successful responses.
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Level     report.Level  `json:"level,omitempty"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Level:     report.LevelError,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	sendAPIError(c, statusCode, APIErrorResponse(code, message, details...))
}

func sendAPIError(c *gin.Context, statusCode int, errorResponse *APIError) {
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}
	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendEmptyQueryError warns that neither name was provided. The message is the configured
// user-facing text and the level is a warning, not an error.
func SendEmptyQueryError(c *gin.Context, notice report.Notice) {
	errorResponse := APIErrorResponse(ErrorCodeEmptyQuery, notice.Message)
	errorResponse.Level = notice.Level
	sendAPIError(c, http.StatusBadRequest, errorResponse)
}

// SendPartitionNotFoundError sends a standardized partition not found error
func SendPartitionNotFoundError(c *gin.Context, label string) {
	SendError(c, http.StatusNotFound, ErrorCodePartitionNotFound,
		"Partition '"+label+"' not found")
}

// SendPartitionUnavailableError reports that the selected partition's data could not be loaded.
func SendPartitionUnavailableError(c *gin.Context, notice report.Notice, err error) {
	SendError(c, http.StatusServiceUnavailable, ErrorCodePartitionUnavailable, notice.Message,
		ErrorDetail{Message: err.Error(), Code: "LOAD_ERROR"})
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// sendEngineError maps an engine error onto the standardized response for its kind.
func (api *API) sendEngineError(c *gin.Context, operation string, err error) {
	reporter := api.engine.Reporter()

	var validationErr *internalErrors.ValidationError
	var notFound *internalErrors.PartitionNotFoundError

	switch {
	case errors.As(err, &validationErr):
		result := &ValidationResult{Valid: true}
		result.AddError(validationErr.Field, validationErr.Message)
		SendStructuredValidationError(c, result)
	case errors.Is(err, internalErrors.ErrEmptyQuery):
		SendEmptyQueryError(c, reporter.EmptyQuery())
	case errors.As(err, &notFound):
		SendPartitionNotFoundError(c, notFound.Label)
	case errors.Is(err, internalErrors.ErrPartitionUnavailable):
		SendPartitionUnavailableError(c, reporter.PartitionUnavailable(), err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeSearchCancelled, operation+" was cancelled: "+err.Error())
	default:
		api.logger.Error("Request failed", zap.String("operation", operation), zap.Error(err))
		SendInternalError(c, operation, err)
	}
}
