package response

import (
	"errors"
	"net/http"

	"github.com/phototrack/attendance-backend-go/internal/domain/attendance"
	"github.com/phototrack/attendance-backend-go/internal/domain/auth"
	"github.com/phototrack/attendance-backend-go/internal/pkg/validator"
	"github.com/phototrack/attendance-backend-go/internal/service/image"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A rejected identity gate carries the similarity score in its message.
	var verificationErr *attendance.VerificationFailedError
	if errors.As(err, &verificationErr) {
		BadRequest(w, verificationErr.Error(), nil)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token has been revoked")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrImageNotFound):
		NotFound(w, "Image not found")
	case errors.Is(err, image.ErrProcessingFailed):
		InternalServerError(w, "Error processing attendance")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
