package department

import (
	"time"

	"github.com/leavedesk/leave-backend-go/internal/pkg/validator"
)

type CreateDepartmentRequest struct {
	Name string `json:"department_name"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_name",
			Message: "department_name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "department_name",
			Message: "department_name must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SetHeadRequest struct {
	HeadID *string `json:"head_id"`
}

type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	HeadID      *string   `json:"head_id,omitempty"`
	HeadName    *string   `json:"head_name,omitempty"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToDepartmentResponse(d Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		HeadID:      d.HeadID,
		HeadName:    d.HeadName,
		MemberCount: d.MemberCount,
		CreatedAt:   d.CreatedAt,
	}
}
