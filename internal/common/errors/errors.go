// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Resolution failures (search or storage collaborator)
	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeStoreLookupFailed ErrorCode = "STORE_LOOKUP_FAILED"
	ErrCodeStoreWriteFailed  ErrorCode = "STORE_WRITE_FAILED"

	// Local parse failures
	ErrCodeTimeParseFailed ErrorCode = "TIME_PARSE_FAILED"

	// Delivery failures
	ErrCodeEmailDeliveryFailed ErrorCode = "EMAIL_DELIVERY_FAILED"
	ErrCodeNotifyPublishFailed ErrorCode = "NOTIFY_PUBLISH_FAILED"

	// Dialog / NLU
	ErrCodeSlotValidationFailed ErrorCode = "SLOT_VALIDATION_FAILED"
	ErrCodeNLUAPIFailed         ErrorCode = "NLU_API_FAILED"
	ErrCodeNLUAPITimeout        ErrorCode = "NLU_API_TIMEOUT"

	// Ingestion
	ErrCodeDirectoryFetchFailed    ErrorCode = "DIRECTORY_FETCH_FAILED"
	ErrCodeListingValidationFailed ErrorCode = "LISTING_VALIDATION_FAILED"
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

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewSearchQueryFailedError creates a retryable search collaborator error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search query error",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(index string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Search query timeout",
		Details:   fmt.Sprintf("index: %s", index),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreLookupFailedError creates a retryable storage lookup error.
func NewStoreLookupFailedError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreLookupFailed,
		Message:   "Restaurant store lookup error",
		Details:   fmt.Sprintf("table: %s, error: %s", table, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreWriteFailedError creates a retryable storage write error.
func NewStoreWriteFailedError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreWriteFailed,
		Message:   "Restaurant store write error",
		Details:   fmt.Sprintf("table: %s, error: %s", table, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeParseFailedError creates a non-retryable malformed time error.
// Never coerce a bad query time to midnight: callers must see this.
func NewTimeParseFailedError(value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeParseFailed,
		Message:   "Malformed clock time",
		Details:   fmt.Sprintf("value: %q, expected HH:MM or HHMM", value),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailDeliveryFailedError wraps the mail collaborator's diagnostic text.
func NewEmailDeliveryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailDeliveryFailed,
		Message:   "Email delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotifyPublishFailedError creates a retryable SNS publish error.
func NewNotifyPublishFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotifyPublishFailed,
		Message:   "Completion notice publish failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSlotValidationFailedError creates a non-retryable dialog slot error.
func NewSlotValidationFailedError(slot, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSlotValidationFailed,
		Message:   fmt.Sprintf("Invalid value for slot %q", slot),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNLUAPIFailedError creates a retryable NLU service error.
func NewNLUAPIFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNLUAPIFailed,
		Message:   "NLU service error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNLUAPITimeoutError creates a retryable NLU timeout error.
func NewNLUAPITimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNLUAPITimeout,
		Message:   "NLU service timeout",
		Details:   "API call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDirectoryFetchFailedError creates a retryable directory API error.
func NewDirectoryFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectoryFetchFailed,
		Message:   "Business directory fetch failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewListingValidationFailedError creates a non-retryable listing schema error.
func NewListingValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeListingValidationFailed,
		Message:   "Directory listing failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeSearchQueryFailed:       "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:           "SEARCH_TIMEOUT",
	ErrCodeStoreLookupFailed:       "STORE_LOOKUP_FAILED",
	ErrCodeStoreWriteFailed:        "STORE_WRITE_FAILED",
	ErrCodeTimeParseFailed:         "TIME_PARSE_FAILED",
	ErrCodeEmailDeliveryFailed:     "EMAIL_DELIVERY_FAILED",
	ErrCodeNotifyPublishFailed:     "NOTIFY_PUBLISH_FAILED",
	ErrCodeSlotValidationFailed:    "SLOT_VALIDATION_FAILED",
	ErrCodeNLUAPIFailed:            "NLU_API_FAILED",
	ErrCodeNLUAPITimeout:           "NLU_API_TIMEOUT",
	ErrCodeDirectoryFetchFailed:    "DIRECTORY_FETCH_FAILED",
	ErrCodeListingValidationFailed: "LISTING_VALIDATION_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSearchQueryFailed,
		ErrCodeStoreLookupFailed,
		ErrCodeStoreWriteFailed,
		ErrCodeEmailDeliveryFailed,
		ErrCodeNotifyPublishFailed,
		ErrCodeNLUAPIFailed,
		ErrCodeDirectoryFetchFailed:
		return 3 // Retryable technical errors

	case ErrCodeSearchTimeout,
		ErrCodeNLUAPITimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Parse/validation errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for the engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "STORE"):
		return "STORAGE"
	case strings.Contains(codeStr, "EMAIL") || strings.Contains(codeStr, "NOTIFY"):
		return "DELIVERY"
	case strings.Contains(codeStr, "NLU"):
		return "NLU"
	case strings.Contains(codeStr, "DIRECTORY") || strings.Contains(codeStr, "LISTING"):
		return "INGESTION"
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
