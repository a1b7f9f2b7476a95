package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrQuotaNotFound        = errors.New("leave quota not found")
	ErrAlternateNotFound    = errors.New("alternate request not found")
	ErrInsufficientQuota    = errors.New("insufficient leave quota")
	ErrInvalidTransition    = errors.New("decision not allowed in the request's current state")
	ErrUnauthorized         = errors.New("actor role does not permit this operation")
	ErrNoDepartment         = errors.New("employee is not assigned to a department")
)
