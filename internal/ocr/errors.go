package ocr

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for OCR calls.
type ErrorCategory string

const (
	// ErrorTimeout indicates signing or recognition exceeded its deadline
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the provider answered with an unparseable body
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates rejected provider or storage credentials
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorProviderOutage indicates the provider is unavailable or the breaker is open
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorRateLimited indicates the provider or local quota refused the call
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorStorage indicates a signed URL could not be issued
	ErrorStorage ErrorCategory = "storage"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps provider failures with normalized categorization.
type ProviderError struct {
	Category   ErrorCategory
	ProviderID string
	Message    string
	Underlying error
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("ocr provider %s [%s]: %s: %v", e.ProviderID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("ocr provider %s [%s]: %s", e.ProviderID, e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError creates a new normalized provider error.
func NewProviderError(category ErrorCategory, providerID, message string, underlying error) *ProviderError {
	return &ProviderError{
		Category:   category,
		ProviderID: providerID,
		Message:    message,
		Underlying: underlying,
	}
}

// Stage names the step of per-image processing that failed.
type Stage string

const (
	StageSign      Stage = "sign"
	StageRecognize Stage = "recognize"
)

// ImageError reports the failure of a single image. It never aborts the other
// images of the same request.
type ImageError struct {
	Slot  Slot
	Path  string
	Stage Stage
	Err   error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("ocr %s image (%s): %v", e.Slot, e.Stage, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

// GetCategory extracts the error category from an error chain. Deadline
// errors that were never categorized are reported as timeouts.
func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	var ie *ImageError
	if errors.As(err, &ie) && ie.Stage == StageSign {
		return ErrorStorage
	}
	return ErrorInternal
}
