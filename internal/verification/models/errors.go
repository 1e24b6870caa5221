package models

import (
	"errors"

	dErrors "idverify/pkg/domain-errors"
)

// ErrMissingImage is wrapped into the validation error returned when neither
// image path is supplied.
var ErrMissingImage = errors.New("missing image path")

// NewMissingInputError is returned before any storage or OCR call is made.
func NewMissingInputError() error {
	return dErrors.Wrap(ErrMissingImage, dErrors.CodeValidation, "at least one of frontPath or backPath is required")
}
