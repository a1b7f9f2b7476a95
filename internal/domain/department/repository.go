package department

import "context"

// DepartmentRepository - interface for departments table
type DepartmentRepository interface {
	Create(ctx context.Context, dept Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	GetByName(ctx context.Context, name string) (Department, error)
	List(ctx context.Context) ([]Department, error)
	SetHead(ctx context.Context, id string, headID *string) error
	Delete(ctx context.Context, id string) error
}
