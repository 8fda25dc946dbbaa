package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/auth"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/employee"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/user"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Ledger edit rejections carry the row and expected punch type; the
	// dashboard highlights the offending row from the details map.
	var editErr *attendance.EditValidationError
	if errors.As(err, &editErr) {
		details := map[string]string{
			"kind": string(editErr.Kind),
			"row":  strconv.Itoa(editErr.Row),
		}
		if editErr.Expected != "" {
			details["expected"] = string(editErr.Expected)
			details["found"] = string(editErr.Found)
		}
		writeJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error: &ErrorDetail{
				Code:    "EDIT_VALIDATION_ERROR",
				Message: editErr.Error(),
				Details: details,
			},
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Administrator privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, "Overrides apply to past dates only", nil)
	case errors.Is(err, attendance.ErrOverrideNotFound):
		NotFound(w, "No override exists for this day")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
