package response

import (
	"errors"
	"net/http"

	"github.com/leavedesk/leave-backend-go/internal/domain/department"
	"github.com/leavedesk/leave-backend-go/internal/domain/holiday"
	"github.com/leavedesk/leave-backend-go/internal/domain/leave"
	"github.com/leavedesk/leave-backend-go/internal/domain/user"
	"github.com/leavedesk/leave-backend-go/internal/pkg/validator"
	"github.com/leavedesk/leave-backend-go/internal/service/file"
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
	// User domain errors
	case errors.Is(err, user.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrHRAccessRequired):
		Forbidden(w, "HR access required")
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Department domain errors
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrNameExists):
		Conflict(w, "Department name already exists")
	case errors.Is(err, department.ErrHeadNotMember):
		BadRequest(w, "Head of department must be a member of the department", nil)
	case errors.Is(err, department.ErrMembersForbidden):
		Forbidden(w, "Member listing is limited to your own department")

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayDateTaken):
		Conflict(w, "A holiday already anchors on this date")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrQuotaNotFound):
		NotFound(w, "Leave quota not found")
	case errors.Is(err, leave.ErrAlternateNotFound):
		NotFound(w, "Alternate request not found")
	case errors.Is(err, leave.ErrInsufficientQuota):
		BadRequest(w, "Insufficient leave quota", nil)
	case errors.Is(err, leave.ErrInvalidTransition):
		Conflict(w, "Decision not allowed in the request's current state")
	case errors.Is(err, leave.ErrUnauthorized):
		Forbidden(w, "You are not allowed to perform this action on this request")
	case errors.Is(err, leave.ErrNoDepartment):
		BadRequest(w, "Employee is not assigned to a department", nil)

	// Attachment errors
	case errors.Is(err, file.ErrUnsupportedFileType):
		BadRequest(w, "Attachment must be a pdf, jpg, jpeg or png file", nil)
	case errors.Is(err, file.ErrFileTooLarge):
		BadRequest(w, "Attachment exceeds the size limit", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
