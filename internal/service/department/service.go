package department

import (
	"context"
	"fmt"

	"github.com/leavedesk/leave-backend-go/internal/domain/department"
	"github.com/leavedesk/leave-backend-go/internal/domain/user"
	"github.com/leavedesk/leave-backend-go/internal/pkg/database"
	"github.com/leavedesk/leave-backend-go/internal/repository/postgresql"
)

type Service struct {
	db *database.DB
	department.DepartmentRepository
	user.UserRepository

	runTx func(ctx context.Context, fn func(txCtx context.Context) error) error
}

func NewService(db *database.DB, departmentRepository department.DepartmentRepository, userRepository user.UserRepository) *Service {
	s := &Service{
		db:                   db,
		DepartmentRepository: departmentRepository,
		UserRepository:       userRepository,
	}
	s.runTx = func(ctx context.Context, fn func(txCtx context.Context) error) error {
		return postgresql.WithTransaction(ctx, s.db, fn)
	}
	return s
}

func (s *Service) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.Department, error) {
	created, err := s.DepartmentRepository.Create(ctx, department.Department{Name: req.Name})
	if err != nil {
		return department.Department{}, err
	}
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (department.Department, error) {
	return s.DepartmentRepository.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]department.Department, error) {
	departments, err := s.DepartmentRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// SetHead assigns or clears the head of a department. The head must
// already be a member of the department; assignment promotes them to the
// hod role in the same transaction.
func (s *Service) SetHead(ctx context.Context, departmentID string, headID *string) (department.Department, error) {
	dept, err := s.DepartmentRepository.GetByID(ctx, departmentID)
	if err != nil {
		return department.Department{}, err
	}

	if headID == nil {
		if err := s.DepartmentRepository.SetHead(ctx, dept.ID, nil); err != nil {
			return department.Department{}, fmt.Errorf("failed to clear department head: %w", err)
		}
		dept.HeadID = nil
		dept.HeadName = nil
		return dept, nil
	}

	head, err := s.UserRepository.GetByID(ctx, *headID)
	if err != nil {
		return department.Department{}, err
	}
	if head.DepartmentID == nil || *head.DepartmentID != dept.ID {
		return department.Department{}, department.ErrHeadNotMember
	}

	err = s.runTx(ctx, func(txCtx context.Context) error {
		if err := s.DepartmentRepository.SetHead(txCtx, dept.ID, headID); err != nil {
			return fmt.Errorf("failed to set department head: %w", err)
		}
		if head.Role != user.RoleHoD {
			if err := s.UserRepository.UpdateRole(txCtx, head.ID, user.RoleHoD); err != nil {
				return fmt.Errorf("failed to promote department head: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return department.Department{}, err
	}

	dept.HeadID = headID
	dept.HeadName = &head.FullName
	return dept, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.DepartmentRepository.Delete(ctx, id)
}

// Members lists the employees of one department.
// Members lists a department's users. HR may inspect any department;
// everyone else only their own.
func (s *Service) Members(ctx context.Context, actor user.Actor, departmentID string) ([]user.User, error) {
	if actor.Role != user.RoleHR && actor.DepartmentID != departmentID {
		return nil, department.ErrMembersForbidden
	}
	if _, err := s.DepartmentRepository.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.UserRepository.ListByDepartment(ctx, departmentID)
}
