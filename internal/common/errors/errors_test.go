package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 3, GetRetryCount(ErrCodeSearchQueryFailed))
	assert.Equal(t, 3, GetRetryCount(ErrCodeStoreWriteFailed))
	assert.Equal(t, 3, GetRetryCount(ErrCodeEmailDeliveryFailed))
	assert.Equal(t, 2, GetRetryCount(ErrCodeSearchTimeout))
	assert.Equal(t, 2, GetRetryCount(ErrCodeNLUAPITimeout))
	assert.Equal(t, 0, GetRetryCount(ErrCodeTimeParseFailed))
	assert.Equal(t, 0, GetRetryCount(ErrCodeSlotValidationFailed))
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeDirectoryFetchFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeListingValidationFailed))
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewSearchTimeoutError("restaurants")
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "SEARCH_TIMEOUT", bpmnErr.Code)
	assert.Equal(t, 2, bpmnErr.Retries)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, string(ErrCodeSearchTimeout), bpmnErr.ErrorVariables["originalErrorCode"])
}

func TestConvertToBPMNErrorNonRetryable(t *testing.T) {
	stdErr := NewTimeParseFailedError("25:99")
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "TIME_PARSE_FAILED", bpmnErr.Code)
	assert.Equal(t, 0, bpmnErr.Retries)
	assert.False(t, bpmnErr.Retryable)
}

func TestToErrorVariables(t *testing.T) {
	bpmnErr := &BPMNError{
		Code:      "EMAIL_DELIVERY_FAILED",
		Message:   "Email delivery failed",
		Retryable: true,
		ErrorVariables: map[string]interface{}{
			"recipient": "diner@example.com",
		},
	}

	vars := bpmnErr.ToErrorVariables()

	require.Equal(t, "EMAIL_DELIVERY_FAILED", vars["errorCode"])
	assert.Equal(t, true, vars["retryable"])
	assert.Equal(t, "diner@example.com", vars["recipient"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeStoreLookupFailed))
	assert.Equal(t, "DELIVERY", GetErrorCategory(ErrCodeNotifyPublishFailed))
	assert.Equal(t, "NLU", GetErrorCategory(ErrCodeNLUAPITimeout))
	assert.Equal(t, "INGESTION", GetErrorCategory(ErrCodeDirectoryFetchFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeTimeParseFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrorCode("SOMETHING_ELSE")))
}

func TestGenericConstructors(t *testing.T) {
	svcErr := NewExternalServiceError("zeebe", fmt.Errorf("connection refused"))
	assert.True(t, svcErr.Retryable)
	assert.Contains(t, svcErr.Error(), "EXTERNAL_SERVICE_ERROR")

	toErr := NewTimeoutError("zeebe", fmt.Errorf("deadline exceeded"))
	assert.True(t, toErr.Retryable)
	assert.Contains(t, toErr.Details, "deadline exceeded")
}
