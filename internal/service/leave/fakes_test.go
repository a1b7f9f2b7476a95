package leave

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/leavedesk/leave-backend-go/internal/domain/holiday"
	"github.com/leavedesk/leave-backend-go/internal/domain/leave"
	"github.com/leavedesk/leave-backend-go/internal/domain/user"
)

// In-memory fakes implementing the repository interfaces, so the service
// logic can be exercised without a database.

var (
	_ leave.LeaveRequestRepository = (*fakeRequestRepo)(nil)
	_ leave.QuotaRepository        = (*fakeQuotaRepo)(nil)
	_ leave.AuditLogRepository     = (*fakeAuditRepo)(nil)
	_ leave.AlternateRepository    = (*fakeAlternateRepo)(nil)
	_ user.UserRepository          = (*fakeUserRepo)(nil)
	_ holiday.HolidayRepository    = (*fakeHolidayRepo)(nil)
)

type fakeRequestRepo struct {
	seq   int
	items map[string]leave.LeaveRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{items: map[string]leave.LeaveRequest{}}
}

func (f *fakeRequestRepo) put(req leave.LeaveRequest) leave.LeaveRequest {
	if req.ID == "" {
		f.seq++
		req.ID = fmt.Sprintf("req-%d", f.seq)
	}
	f.items[req.ID] = req
	return req
}

func (f *fakeRequestRepo) Create(_ context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	req.SubmittedAt = time.Now()
	return f.put(req), nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	req, ok := f.items[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (f *fakeRequestRepo) GetByEmployeeID(_ context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return f.filter(func(r leave.LeaveRequest) bool { return r.EmployeeID == employeeID }), nil
}

func (f *fakeRequestRepo) PendingForHoD(_ context.Context, departmentID string) ([]leave.LeaveRequest, error) {
	return f.filter(func(r leave.LeaveRequest) bool {
		return r.DepartmentID == departmentID && r.State == leave.StatePending
	}), nil
}

func (f *fakeRequestRepo) PendingForHR(_ context.Context) ([]leave.LeaveRequest, error) {
	return f.filter(func(r leave.LeaveRequest) bool { return r.State == leave.StateHoDApproved }), nil
}

func (f *fakeRequestRepo) ApprovedIntersecting(_ context.Context, periodStart, periodEnd time.Time, departmentID *string) ([]leave.LeaveRequest, error) {
	return f.filter(func(r leave.LeaveRequest) bool {
		if r.State != leave.StateApproved {
			return false
		}
		if departmentID != nil && r.DepartmentID != *departmentID {
			return false
		}
		return !r.StartDate.After(periodEnd) && !r.EndDate.Before(periodStart)
	}), nil
}

func (f *fakeRequestRepo) UpdateDecision(_ context.Context, id string, fromState, state leave.RequestState, role user.Role, remark *string, decidedBy string, decidedAt time.Time) error {
	req, ok := f.items[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if req.State != fromState {
		return leave.ErrInvalidTransition
	}
	req.State = state
	if role == user.RoleHoD {
		req.HoDRemark = remark
	} else {
		req.HRRemark = remark
	}
	req.DecidedBy = &decidedBy
	req.DecidedAt = &decidedAt
	f.items[id] = req
	return nil
}

func (f *fakeRequestRepo) filter(keep func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	out := make([]leave.LeaveRequest, 0)
	for _, r := range f.items {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeQuotaRepo struct {
	items map[string]leave.Quota
}

func newFakeQuotaRepo() *fakeQuotaRepo {
	return &fakeQuotaRepo{items: map[string]leave.Quota{}}
}

func quotaKey(employeeID string, category leave.Category, year int) string {
	return fmt.Sprintf("%s|%s|%d", employeeID, category, year)
}

func (f *fakeQuotaRepo) put(q leave.Quota) {
	f.items[quotaKey(q.EmployeeID, q.Category, q.Year)] = q
}

func (f *fakeQuotaRepo) GetByEmployeeCategoryYear(_ context.Context, employeeID string, category leave.Category, year int) (leave.Quota, error) {
	q, ok := f.items[quotaKey(employeeID, category, year)]
	if !ok {
		return leave.Quota{}, leave.ErrQuotaNotFound
	}
	return q, nil
}

func (f *fakeQuotaRepo) GetByEmployeeAndYear(_ context.Context, employeeID string, year int) ([]leave.Quota, error) {
	out := make([]leave.Quota, 0)
	for _, q := range f.items {
		if q.EmployeeID == employeeID && q.Year == year {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (f *fakeQuotaRepo) Deduct(_ context.Context, employeeID string, category leave.Category, year int, days int) error {
	key := quotaKey(employeeID, category, year)
	q, ok := f.items[key]
	if !ok {
		return leave.ErrQuotaNotFound
	}
	q.Used += days
	f.items[key] = q
	return nil
}

func (f *fakeQuotaRepo) SetAllocationForAll(_ context.Context, category leave.Category, year int, days int) (int64, error) {
	var rows int64
	for key, q := range f.items {
		if q.Category == category && q.Year == year {
			q.Allocated = days
			f.items[key] = q
			rows++
		}
	}
	return rows, nil
}

func (f *fakeQuotaRepo) ResetUsedForAll(_ context.Context, year int) (int64, error) {
	var rows int64
	for key, q := range f.items {
		if q.Year == year && q.Used != 0 {
			q.Used = 0
			f.items[key] = q
			rows++
		}
	}
	return rows, nil
}

type fakeAuditRepo struct {
	entries []leave.AuditEntry
}

func (f *fakeAuditRepo) Append(_ context.Context, entry leave.AuditEntry) (leave.AuditEntry, error) {
	entry.ID = fmt.Sprintf("audit-%d", len(f.entries)+1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeAuditRepo) ListByRequest(_ context.Context, requestID string) ([]leave.AuditEntry, error) {
	out := make([]leave.AuditEntry, 0)
	for _, e := range f.entries {
		if e.RequestID == requestID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAlternateRepo struct {
	seq   int
	items map[string]leave.AlternateRequest
}

func newFakeAlternateRepo() *fakeAlternateRepo {
	return &fakeAlternateRepo{items: map[string]leave.AlternateRequest{}}
}

func (f *fakeAlternateRepo) Create(_ context.Context, alt leave.AlternateRequest) (leave.AlternateRequest, error) {
	f.seq++
	alt.ID = fmt.Sprintf("alt-%d", f.seq)
	f.items[alt.ID] = alt
	return alt, nil
}

func (f *fakeAlternateRepo) GetByID(_ context.Context, id string) (leave.AlternateRequest, error) {
	alt, ok := f.items[id]
	if !ok {
		return leave.AlternateRequest{}, leave.ErrAlternateNotFound
	}
	return alt, nil
}

func (f *fakeAlternateRepo) ListByRequest(_ context.Context, requestID string) ([]leave.AlternateRequest, error) {
	out := make([]leave.AlternateRequest, 0)
	for _, alt := range f.items {
		if alt.RequestID == requestID {
			out = append(out, alt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAlternateRepo) UpdateResponse(_ context.Context, id string, response leave.AlternateResponse) error {
	alt, ok := f.items[id]
	if !ok {
		return leave.ErrAlternateNotFound
	}
	alt.Response = response
	f.items[id] = alt
	return nil
}

type fakeUserRepo struct {
	items map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	f := &fakeUserRepo{items: map[string]user.User{}}
	for _, u := range users {
		f.items[u.ID] = u
	}
	return f
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

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.items {
		if u.Email == email {
			return u, nil
		}
	}
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

type fakeHolidayRepo struct {
	items []holiday.Holiday
}

func (f *fakeHolidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	f.items = append(f.items, h)
	return h, nil
}

func (f *fakeHolidayRepo) GetByID(_ context.Context, id string) (holiday.Holiday, error) {
	for _, h := range f.items {
		if h.ID == id {
			return h, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) GetByDate(_ context.Context, date time.Time) (holiday.Holiday, error) {
	for _, h := range f.items {
		if h.Date.Equal(date) {
			return h, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) List(_ context.Context) ([]holiday.Holiday, error) {
	return f.items, nil
}

func (f *fakeHolidayRepo) Update(_ context.Context, h holiday.Holiday) error {
	for i := range f.items {
		if f.items[i].ID == h.ID {
			f.items[i] = h
			return nil
		}
	}
	return holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) Delete(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return holiday.ErrHolidayNotFound
}

type fakeStorage struct {
	uploads []string
}

func (f *fakeStorage) Upload(_ context.Context, _ io.Reader, path string, _ string) (string, error) {
	f.uploads = append(f.uploads, path)
	return "/files/" + path, nil
}

func (f *fakeStorage) Download(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeStorage) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeStorage) GetURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "/files/" + path, nil
}

func (f *fakeStorage) Exists(_ context.Context, _ string) (bool, error) { return true, nil }

// fakeFile adapts a bytes.Reader into a multipart.File.
type fakeFile struct {
	*bytes.Reader
}

func (fakeFile) Close() error { return nil }

type sentNotice struct {
	to     string
	status string
	remark *string
}

type fakeEmail struct {
	sent []sentNotice
}

func (f *fakeEmail) SendDecisionNotice(to, _, _, _, _, status string, remark *string) error {
	f.sent = append(f.sent, sentNotice{to: to, status: status, remark: remark})
	return nil
}
