package user

import "context"

// UserRepository - interface for users table
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]User, error)
	UpdateRole(ctx context.Context, id string, role Role) error
}
