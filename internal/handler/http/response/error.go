package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Timeclock domain errors
	case errors.Is(err, timeclock.ErrEmptyFile):
		BadRequest(w, "The punch file contains no data", nil)
	case errors.Is(err, timeclock.ErrUnreadableFile):
		BadRequest(w, "The punch file could not be read", nil)
	case errors.Is(err, timeclock.ErrUnsupportedFormat):
		BadRequest(w, "Unsupported export format", nil)
	case errors.Is(err, timeclock.ErrFileTooLarge):
		PayloadTooLarge(w, "Punch file size must not exceed 20MB")
	case errors.Is(err, timeclock.ErrUploadInProgress):
		Conflict(w, "Another punch file is being processed")
	case errors.Is(err, timeclock.ErrNoResultSet):
		NotFound(w, "No punch file has been processed yet")
	case errors.Is(err, timeclock.ErrNoDataToExport):
		NotFound(w, "There are no records to export")
	case errors.Is(err, timeclock.ErrNoArchive):
		NotFound(w, "The source punch file is not available")

	// Employee domain errors
	case errors.Is(err, employee.ErrRosterUnavailable):
		ServiceUnavailable(w, "Employee roster is unavailable")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
