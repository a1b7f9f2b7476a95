package department

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrNameExists         = errors.New("department name already exists")
	ErrHeadNotMember      = errors.New("head of department must be a department member with the hod role")
	ErrMembersForbidden   = errors.New("member listing limited to your own department")
)
