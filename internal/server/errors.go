package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resumind/internal/export"
	"github.com/jonathan/resumind/internal/fetch"
	"github.com/jonathan/resumind/internal/ingestion"
	"github.com/jonathan/resumind/internal/rendering"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// validationError converts the first validator field error into an ErrValidation.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: "failed on the '" + fe.Tag() + "' rule"}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		inputErr      *rendering.InputError
		unknownErr    *rendering.UnknownTemplateError
		loginErr      *fetch.LoginFormError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &inputErr),
		errors.Is(err, fetch.ErrInvalidProfileURL),
		errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, ingestion.ErrUnsupportedDocument):
		return http.StatusBadRequest
	case errors.As(err, &unknownErr):
		return http.StatusNotFound
	case errors.Is(err, fetch.ErrMissingCredentials):
		return http.StatusPreconditionFailed
	case errors.As(err, &loginErr),
		errors.Is(err, fetch.ErrProfileUnavailable),
		errors.Is(err, ingestion.ErrHTTPRequestFailed),
		errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
