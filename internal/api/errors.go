package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-relay/internal/api/shared"
	"github.com/phrazzld/scry-relay/internal/domain"
	"github.com/phrazzld/scry-relay/internal/generation"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrUpstream):
		return http.StatusBadGateway

	// Configuration problems are ours, not the client's or the provider's.
	case errors.Is(err, generation.ErrConfiguration):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrEmptyTopic):
		return "Invalid topic: required field"

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, generation.ErrConfiguration):
		return "Flashcard generation is not configured"

	case errors.Is(err, generation.ErrUpstream):
		return "Upstream model provider failed"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status code and safe message for err and logs the
// redacted cause.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// SanitizeValidationError turns validator errors into a short message naming
// the first failing field, e.g. "Invalid topic: required field".
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
