package department

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavedesk/leave-backend-go/internal/domain/department"
	"github.com/leavedesk/leave-backend-go/internal/domain/user"
)

type fakeDeptRepo struct {
	seq   int
	items map[string]department.Department
}

func newFakeDeptRepo() *fakeDeptRepo {
	return &fakeDeptRepo{items: map[string]department.Department{}}
}

func (f *fakeDeptRepo) Create(_ context.Context, d department.Department) (department.Department, error) {
	for _, existing := range f.items {
		if existing.Name == d.Name {
			return department.Department{}, department.ErrNameExists
		}
	}
	f.seq++
	d.ID = fmt.Sprintf("dept-%d", f.seq)
	f.items[d.ID] = d
	return d, nil
}

func (f *fakeDeptRepo) GetByID(_ context.Context, id string) (department.Department, error) {
	d, ok := f.items[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return d, nil
}

func (f *fakeDeptRepo) GetByName(_ context.Context, name string) (department.Department, error) {
	for _, d := range f.items {
		if d.Name == name {
			return d, nil
		}
	}
	return department.Department{}, department.ErrDepartmentNotFound
}

func (f *fakeDeptRepo) List(_ context.Context) ([]department.Department, error) {
	out := make([]department.Department, 0, len(f.items))
	for _, d := range f.items {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDeptRepo) SetHead(_ context.Context, id string, headID *string) error {
	d, ok := f.items[id]
	if !ok {
		return department.ErrDepartmentNotFound
	}
	d.HeadID = headID
	f.items[id] = d
	return nil
}

func (f *fakeDeptRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return department.ErrDepartmentNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeUserRepo struct {
	items map[string]user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	f.items[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.items[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) ListByDepartment(_ context.Context, departmentID string) ([]user.User, error) {
	out := make([]user.User, 0)
	for _, u := range f.items {
		if u.DepartmentID != nil && *u.DepartmentID == departmentID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id string, role user.Role) error {
	u, ok := f.items[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	f.items[id] = u
	return nil
}

func newTestService(users map[string]user.User) (*Service, *fakeDeptRepo, *fakeUserRepo) {
	depts := newFakeDeptRepo()
	userRepo := &fakeUserRepo{items: users}
	svc := NewService(nil, depts, userRepo)
	svc.runTx = func(ctx context.Context, fn func(txCtx context.Context) error) error {
		return fn(ctx)
	}
	return svc, depts, userRepo
}

func TestDepartmentService(t *testing.T) {
	ctx := context.Background()

	t.Run("create rejects duplicate names", func(t *testing.T) {
		svc, _, _ := newTestService(nil)

		_, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
		assert.ErrorIs(t, err, department.ErrNameExists)
	})

	t.Run("set head promotes a member to hod", func(t *testing.T) {
		svc, _, users := newTestService(map[string]user.User{})

		dept, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
		require.NoError(t, err)

		users.items["u1"] = user.User{ID: "u1", FullName: "Alice Tan", Role: user.RoleEmployee, DepartmentID: &dept.ID}

		headID := "u1"
		updated, err := svc.SetHead(ctx, dept.ID, &headID)
		require.NoError(t, err)
		require.NotNil(t, updated.HeadID)
		assert.Equal(t, "u1", *updated.HeadID)

		promoted, err := users.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, user.RoleHoD, promoted.Role)
	})

	t.Run("set head rejects a non-member", func(t *testing.T) {
		otherDept := "dept-other"
		svc, _, users := newTestService(map[string]user.User{})

		dept, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
		require.NoError(t, err)

		users.items["u2"] = user.User{ID: "u2", FullName: "Bob Lim", Role: user.RoleEmployee, DepartmentID: &otherDept}

		headID := "u2"
		_, err = svc.SetHead(ctx, dept.ID, &headID)
		assert.ErrorIs(t, err, department.ErrHeadNotMember)
	})

	t.Run("set head with nil clears the head", func(t *testing.T) {
		svc, depts, users := newTestService(map[string]user.User{})

		dept, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
		require.NoError(t, err)
		users.items["u1"] = user.User{ID: "u1", FullName: "Alice Tan", Role: user.RoleHoD, DepartmentID: &dept.ID}

		headID := "u1"
		_, err = svc.SetHead(ctx, dept.ID, &headID)
		require.NoError(t, err)

		cleared, err := svc.SetHead(ctx, dept.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, cleared.HeadID)

		stored, err := depts.GetByID(ctx, dept.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.HeadID)
	})

	t.Run("members lists only that department", func(t *testing.T) {
		other := "dept-other"
		svc, _, users := newTestService(map[string]user.User{})

		dept, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
		require.NoError(t, err)
		users.items["u1"] = user.User{ID: "u1", DepartmentID: &dept.ID}
		users.items["u2"] = user.User{ID: "u2", DepartmentID: &other}

		members, err := svc.Members(ctx, user.Actor{ID: "hr-1", Role: user.RoleHR}, dept.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "u1", members[0].ID)
	})

	t.Run("members allows a hod inside their own department only", func(t *testing.T) {
		svc, _, users := newTestService(map[string]user.User{})

		dept, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
		require.NoError(t, err)
		users.items["u1"] = user.User{ID: "u1", DepartmentID: &dept.ID}

		hod := user.Actor{ID: "hod-1", Role: user.RoleHoD, DepartmentID: dept.ID}
		members, err := svc.Members(ctx, hod, dept.ID)
		require.NoError(t, err)
		assert.Len(t, members, 1)

		outsider := user.Actor{ID: "hod-2", Role: user.RoleHoD, DepartmentID: "dept-other"}
		_, err = svc.Members(ctx, outsider, dept.ID)
		assert.ErrorIs(t, err, department.ErrMembersForbidden)
	})
}
