package leave

import (
	"bytes"
	"context"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavedesk/leave-backend-go/internal/domain/holiday"
	"github.com/leavedesk/leave-backend-go/internal/domain/leave"
	"github.com/leavedesk/leave-backend-go/internal/domain/user"
	"github.com/leavedesk/leave-backend-go/internal/service/file"
)

type testEnv struct {
	svc        *RequestService
	requests   *fakeRequestRepo
	quotas     *fakeQuotaRepo
	audits     *fakeAuditRepo
	alternates *fakeAlternateRepo
	users      *fakeUserRepo
	holidays   *fakeHolidayRepo
	storage    *fakeStorage
	email      *fakeEmail
}

func newTestEnv(users ...user.User) *testEnv {
	env := &testEnv{
		requests:   newFakeRequestRepo(),
		quotas:     newFakeQuotaRepo(),
		audits:     &fakeAuditRepo{},
		alternates: newFakeAlternateRepo(),
		users:      newFakeUserRepo(users...),
		holidays:   &fakeHolidayRepo{},
		storage:    &fakeStorage{},
		email:      &fakeEmail{},
	}
	env.svc = NewRequestService(
		nil,
		env.requests, env.quotas, env.audits, env.alternates,
		env.users, env.holidays, file.NewService(env.storage), env.email,
	)
	env.svc.runTx = func(ctx context.Context, fn func(txCtx context.Context) error) error {
		return fn(ctx)
	}
	return env
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func strptr(s string) *string { return &s }

var (
	deptEng = "dept-eng"

	alice = user.User{ID: "alice", FullName: "Alice Tan", Email: "alice@example.com", Role: user.RoleEmployee, DepartmentID: &deptEng}
	bob   = user.User{ID: "bob", FullName: "Bob Lim", Email: "bob@example.com", Role: user.RoleEmployee, DepartmentID: &deptEng}
	hod   = user.Actor{ID: "hod-1", Role: user.RoleHoD, DepartmentID: deptEng}
	hr    = user.Actor{ID: "hr-1", Role: user.RoleHR}
)

func seedQuota(env *testEnv, employeeID string, category leave.Category, year, allocated, used int) {
	env.quotas.put(leave.Quota{
		ID: "q-" + employeeID, EmployeeID: employeeID,
		Category: category, Year: year, Allocated: allocated, Used: used,
	})
}

func seedPendingRequest(env *testEnv, employeeID string, start, end time.Time) leave.LeaveRequest {
	return env.requests.put(leave.LeaveRequest{
		EmployeeID:   employeeID,
		DepartmentID: deptEng,
		Category:     leave.CategoryAnnual,
		StartDate:    start,
		EndDate:      end,
		TotalDays:    holiday.CalendarDays(start, end),
		Reason:       "family matters",
		State:        leave.StatePending,
	})
}

func TestCreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("files a pending request with alternates and an audit entry", func(t *testing.T) {
		env := newTestEnv(alice, bob)
		seedQuota(env, "alice", leave.CategoryAnnual, 2026, 20, 0)

		created, err := env.svc.Create(ctx, leave.CreateLeaveRequestRequest{
			Category:     "annual",
			StartDate:    "2026-01-01",
			EndDate:      "2026-01-05",
			Reason:       "family matters",
			AlternateIDs: []string{"bob"},
			EmployeeID:   "alice",
		})
		require.NoError(t, err)

		assert.Equal(t, leave.StatePending, created.State)
		assert.Equal(t, 5, created.TotalDays)
		assert.Equal(t, deptEng, created.DepartmentID)

		require.Len(t, created.Alternates, 1)
		assert.Equal(t, "bob", created.Alternates[0].ColleagueID)
		assert.Equal(t, leave.AlternatePending, created.Alternates[0].Response)

		require.Len(t, env.audits.entries, 1)
		assert.Equal(t, leave.ActionApplied, env.audits.entries[0].Action)
		assert.Equal(t, "alice", env.audits.entries[0].ActorID)
	})

	t.Run("stores a supporting document and keeps its reference", func(t *testing.T) {
		env := newTestEnv(alice)
		seedQuota(env, "alice", leave.CategoryCasual, 2026, 10, 0)

		created, err := env.svc.Create(ctx, leave.CreateLeaveRequestRequest{
			Category:   "casual",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-03",
			Reason:     "doctor's note attached",
			EmployeeID: "alice",
			File:       fakeFile{bytes.NewReader([]byte("%PDF-1.4"))},
			FileHeader: &multipart.FileHeader{Filename: "note.pdf", Size: 8},
		})
		require.NoError(t, err)

		require.NotNil(t, created.AttachmentURL)
		assert.True(t, strings.HasPrefix(*created.AttachmentURL, "/files/leave-attachments/alice/"))
		assert.True(t, strings.HasSuffix(*created.AttachmentURL, ".pdf"))
		require.Len(t, env.storage.uploads, 1)
	})

	t.Run("rejects an attachment with an unsupported extension", func(t *testing.T) {
		env := newTestEnv(alice)
		seedQuota(env, "alice", leave.CategoryCasual, 2026, 10, 0)

		_, err := env.svc.Create(ctx, leave.CreateLeaveRequestRequest{
			Category:   "casual",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-03",
			Reason:     "doctor's note attached",
			EmployeeID: "alice",
			File:       fakeFile{bytes.NewReader([]byte("MZ"))},
			FileHeader: &multipart.FileHeader{Filename: "note.exe", Size: 2},
		})
		assert.ErrorIs(t, err, file.ErrUnsupportedFileType)
		assert.Empty(t, env.requests.items)
	})

	t.Run("rejects when calendar days exceed remaining quota", func(t *testing.T) {
		env := newTestEnv(alice)
		seedQuota(env, "alice", leave.CategoryAnnual, 2026, 4, 0)

		_, err := env.svc.Create(ctx, leave.CreateLeaveRequestRequest{
			Category:   "annual",
			StartDate:  "2026-01-01",
			EndDate:    "2026-01-05",
			Reason:     "family matters",
			EmployeeID: "alice",
		})
		assert.ErrorIs(t, err, leave.ErrInsufficientQuota)
		assert.Empty(t, env.requests.items)
	})

	t.Run("checks raw calendar days even when the span covers a weekend", func(t *testing.T) {
		// Jan 1-5 2026 holds only three working days, but the creation
		// check still counts all five calendar days.
		env := newTestEnv(alice)
		seedQuota(env, "alice", leave.CategoryAnnual, 2026, 4, 0)

		_, err := env.svc.Create(ctx, leave.CreateLeaveRequestRequest{
			Category:   "annual",
			StartDate:  "2026-01-01",
			EndDate:    "2026-01-05",
			Reason:     "family matters",
			EmployeeID: "alice",
		})
		assert.ErrorIs(t, err, leave.ErrInsufficientQuota)
	})

	t.Run("fails when no quota ledger row exists", func(t *testing.T) {
		env := newTestEnv(alice)

		_, err := env.svc.Create(ctx, leave.CreateLeaveRequestRequest{
			Category:   "annual",
			StartDate:  "2026-01-01",
			EndDate:    "2026-01-02",
			Reason:     "family matters",
			EmployeeID: "alice",
		})
		assert.ErrorIs(t, err, leave.ErrQuotaNotFound)
	})

	t.Run("fails when the employee has no department", func(t *testing.T) {
		env := newTestEnv(user.User{ID: "nomad", FullName: "No Dept", Role: user.RoleEmployee})

		_, err := env.svc.Create(ctx, leave.CreateLeaveRequestRequest{
			Category:   "annual",
			StartDate:  "2026-01-01",
			EndDate:    "2026-01-02",
			Reason:     "family matters",
			EmployeeID: "nomad",
		})
		assert.ErrorIs(t, err, leave.ErrNoDepartment)
	})
}

func TestDecide(t *testing.T) {
	ctx := context.Background()

	t.Run("full approval deducts working days only", func(t *testing.T) {
		env := newTestEnv(alice)
		seedQuota(env, "alice", leave.CategoryAnnual, 2026, 20, 0)
		req := seedPendingRequest(env, "alice", day(2026, time.January, 1), day(2026, time.January, 5))

		afterHoD, err := env.svc.Decide(ctx, hod, req.ID, leave.DecisionRequest{Action: "approve"})
		require.NoError(t, err)
		assert.Equal(t, leave.StateHoDApproved, afterHoD.State)
		assert.True(t, afterHoD.State.ApprovedByHoD())
		assert.False(t, afterHoD.State.ApprovedByHR())

		// HoD approval alone must not touch the quota.
		quota, err := env.quotas.GetByEmployeeCategoryYear(ctx, "alice", leave.CategoryAnnual, 2026)
		require.NoError(t, err)
		assert.Equal(t, 0, quota.Used)

		afterHR, err := env.svc.Decide(ctx, hr, req.ID, leave.DecisionRequest{Action: "approve"})
		require.NoError(t, err)
		assert.Equal(t, leave.StateApproved, afterHR.State)

		// Jan 1-5 2026 spans Thu-Mon: three working days, not five.
		quota, err = env.quotas.GetByEmployeeCategoryYear(ctx, "alice", leave.CategoryAnnual, 2026)
		require.NoError(t, err)
		assert.Equal(t, 3, quota.Used)
	})

	t.Run("declared holidays are excluded from the deduction", func(t *testing.T) {
		env := newTestEnv(alice)
		env.holidays.items = []holiday.Holiday{
			{ID: "h1", Name: "New Year", Date: day(2026, time.January, 1), SpanDays: 1},
		}
		seedQuota(env, "alice", leave.CategoryAnnual, 2026, 20, 0)
		req := seedPendingRequest(env, "alice", day(2026, time.January, 1), day(2026, time.January, 5))

		_, err := env.svc.Decide(ctx, hod, req.ID, leave.DecisionRequest{Action: "approve"})
		require.NoError(t, err)
		_, err = env.svc.Decide(ctx, hr, req.ID, leave.DecisionRequest{Action: "approve"})
		require.NoError(t, err)

		quota, err := env.quotas.GetByEmployeeCategoryYear(ctx, "alice", leave.CategoryAnnual, 2026)
		require.NoError(t, err)
		assert.Equal(t, 2, quota.Used)
	})

	t.Run("days spilling into the next year never consume quota", func(t *testing.T) {
		env := newTestEnv(alice)
		seedQuota(env, "alice", leave.CategoryAnnual, 2026, 20, 0)
		req := seedPendingRequest(env, "alice", day(2026, time.December, 30), day(2027, time.January, 2))

		_, err := env.svc.Decide(ctx, hod, req.ID, leave.DecisionRequest{Action: "approve"})
		require.NoError(t, err)
		_, err = env.svc.Decide(ctx, hr, req.ID, leave.DecisionRequest{Action: "approve"})
		require.NoError(t, err)

		// Only Dec 30 and Dec 31 (Wed, Thu) fall inside the 2026
		// allocation year.
		quota, err := env.quotas.GetByEmployeeCategoryYear(ctx, "alice", leave.CategoryAnnual, 2026)
		require.NoError(t, err)
		assert.Equal(t, 2, quota.Used)
	})

	t.Run("HoD decline ends the request without any deduction", func(t *testing.T) {
		env := newTestEnv(alice)
		seedQuota(env, "alice", leave.CategoryAnnual, 2026, 20, 0)
		req := seedPendingRequest(env, "alice", day(2026, time.January, 1), day(2026, time.January, 5))

		declined, err := env.svc.Decide(ctx, hod, req.ID, leave.DecisionRequest{
			Action:  "decline",
			Remarks: strptr("team is at capacity"),
		})
		require.NoError(t, err)

		assert.Equal(t, leave.StateDeclined, declined.State)
		assert.False(t, declined.State.ApprovedByHoD())
		require.NotNil(t, declined.HoDRemark)
		assert.Equal(t, "team is at capacity", *declined.HoDRemark)

		quota, err := env.quotas.GetByEmployeeCategoryYear(ctx, "alice", leave.CategoryAnnual, 2026)
		require.NoError(t, err)
		assert.Equal(t, 0, quota.Used)

		require.Len(t, env.audits.entries, 1)
		assert.Equal(t, leave.ActionDeclined, env.audits.entries[0].Action)
	})

	t.Run("HR cannot approve before the HoD has acted", func(t *testing.T) {
		env := newTestEnv(alice)
		req := seedPendingRequest(env, "alice", day(2026, time.January, 1), day(2026, time.January, 5))

		_, err := env.svc.Decide(ctx, hr, req.ID, leave.DecisionRequest{Action: "approve"})
		assert.ErrorIs(t, err, leave.ErrInvalidTransition)

		got, err := env.requests.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, leave.StatePending, got.State)
	})

	t.Run("HR may decline a still-pending request", func(t *testing.T) {
		env := newTestEnv(alice)
		req := seedPendingRequest(env, "alice", day(2026, time.January, 1), day(2026, time.January, 5))

		declined, err := env.svc.Decide(ctx, hr, req.ID, leave.DecisionRequest{Action: "decline"})
		require.NoError(t, err)
		assert.Equal(t, leave.StateDeclined, declined.State)
	})

	t.Run("a HoD cannot decide outside their department", func(t *testing.T) {
		env := newTestEnv(alice)
		req := seedPendingRequest(env, "alice", day(2026, time.January, 1), day(2026, time.January, 5))

		otherHoD := user.Actor{ID: "hod-2", Role: user.RoleHoD, DepartmentID: "dept-sales"}
		_, err := env.svc.Decide(ctx, otherHoD, req.ID, leave.DecisionRequest{Action: "approve"})
		assert.ErrorIs(t, err, leave.ErrUnauthorized)
	})

	t.Run("employees cannot decide at all", func(t *testing.T) {
		env := newTestEnv(alice)
		req := seedPendingRequest(env, "alice", day(2026, time.January, 1), day(2026, time.January, 5))

		employee := user.Actor{ID: "alice", Role: user.RoleEmployee, DepartmentID: deptEng}
		_, err := env.svc.Decide(ctx, employee, req.ID, leave.DecisionRequest{Action: "approve"})
		assert.ErrorIs(t, err, leave.ErrUnauthorized)
	})

	t.Run("terminal states accept no further decisions", func(t *testing.T) {
		env := newTestEnv(alice)
		req := env.requests.put(leave.LeaveRequest{
			EmployeeID: "alice", DepartmentID: deptEng,
			Category:  leave.CategoryAnnual,
			StartDate: day(2026, time.January, 1), EndDate: day(2026, time.January, 5),
			State: leave.StateDeclined,
		})

		_, err := env.svc.Decide(ctx, hr, req.ID, leave.DecisionRequest{Action: "approve"})
		assert.ErrorIs(t, err, leave.ErrInvalidTransition)
	})

	t.Run("final approval is not re-validated against the quota", func(t *testing.T) {
		// The deduction can push used past allocated; the ledger records
		// it and Remaining floors at zero for display.
		env := newTestEnv(alice)
		seedQuota(env, "alice", leave.CategoryAnnual, 2026, 1, 0)
		req := seedPendingRequest(env, "alice", day(2026, time.January, 1), day(2026, time.January, 5))

		_, err := env.svc.Decide(ctx, hod, req.ID, leave.DecisionRequest{Action: "approve"})
		require.NoError(t, err)
		_, err = env.svc.Decide(ctx, hr, req.ID, leave.DecisionRequest{Action: "approve"})
		require.NoError(t, err)

		quota, err := env.quotas.GetByEmployeeCategoryYear(ctx, "alice", leave.CategoryAnnual, 2026)
		require.NoError(t, err)
		assert.Equal(t, 3, quota.Used)
		assert.Equal(t, 1, quota.Allocated)
		assert.Equal(t, 0, quota.Remaining())
	})

	t.Run("terminal decisions notify the employee", func(t *testing.T) {
		env := newTestEnv(alice)
		seedQuota(env, "alice", leave.CategoryAnnual, 2026, 20, 0)
		req := seedPendingRequest(env, "alice", day(2026, time.January, 1), day(2026, time.January, 5))

		_, err := env.svc.Decide(ctx, hod, req.ID, leave.DecisionRequest{Action: "approve"})
		require.NoError(t, err)
		assert.Empty(t, env.email.sent, "intermediate approval must not notify")

		_, err = env.svc.Decide(ctx, hr, req.ID, leave.DecisionRequest{Action: "approve"})
		require.NoError(t, err)

		require.Len(t, env.email.sent, 1)
		assert.Equal(t, "alice@example.com", env.email.sent[0].to)
		assert.Equal(t, "approved", env.email.sent[0].status)
	})
}

func TestPendingApprovals(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(alice)
	seedPendingRequest(env, "alice", day(2026, time.March, 2), day(2026, time.March, 3))
	env.requests.put(leave.LeaveRequest{
		EmployeeID: "alice", DepartmentID: deptEng,
		Category:  leave.CategoryCasual,
		StartDate: day(2026, time.April, 1), EndDate: day(2026, time.April, 1),
		State: leave.StateHoDApproved,
	})

	t.Run("HoD sees pending requests in their department", func(t *testing.T) {
		got, err := env.svc.PendingApprovals(ctx, hod)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, leave.StatePending, got[0].State)
	})

	t.Run("HR sees HoD-approved requests", func(t *testing.T) {
		got, err := env.svc.PendingApprovals(ctx, hr)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, leave.StateHoDApproved, got[0].State)
	})

	t.Run("employees have no approval queue", func(t *testing.T) {
		employee := user.Actor{ID: "alice", Role: user.RoleEmployee, DepartmentID: deptEng}
		_, err := env.svc.PendingApprovals(ctx, employee)
		assert.ErrorIs(t, err, leave.ErrUnauthorized)
	})
}

func TestRespondAlternate(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(alice, bob)
	req := seedPendingRequest(env, "alice", day(2026, time.May, 4), day(2026, time.May, 5))
	alt, err := env.alternates.Create(ctx, leave.AlternateRequest{
		RequestID: req.ID, ColleagueID: "bob", Response: leave.AlternatePending,
	})
	require.NoError(t, err)

	t.Run("only the named colleague may respond", func(t *testing.T) {
		stranger := user.Actor{ID: "carol", Role: user.RoleEmployee, DepartmentID: deptEng}
		_, err := env.svc.RespondAlternate(ctx, stranger, alt.ID, leave.AlternateResponseRequest{Response: "ok"})
		assert.ErrorIs(t, err, leave.ErrUnauthorized)
	})

	t.Run("records the colleague's response", func(t *testing.T) {
		colleague := user.Actor{ID: "bob", Role: user.RoleEmployee, DepartmentID: deptEng}
		got, err := env.svc.RespondAlternate(ctx, colleague, alt.ID, leave.AlternateResponseRequest{Response: "ok"})
		require.NoError(t, err)
		assert.Equal(t, leave.AlternateOK, got.Response)

		stored, err := env.alternates.GetByID(ctx, alt.ID)
		require.NoError(t, err)
		assert.Equal(t, leave.AlternateOK, stored.Response)
	})
}

func TestGetByIDVisibility(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(alice)
	req := seedPendingRequest(env, "alice", day(2026, time.June, 1), day(2026, time.June, 2))

	t.Run("owner, HoD of the department and HR can view", func(t *testing.T) {
		for _, actor := range []user.Actor{
			{ID: "alice", Role: user.RoleEmployee, DepartmentID: deptEng},
			hod,
			hr,
		} {
			_, err := env.svc.GetByID(ctx, actor, req.ID)
			assert.NoError(t, err)
		}
	})

	t.Run("unrelated employees cannot view", func(t *testing.T) {
		stranger := user.Actor{ID: "carol", Role: user.RoleEmployee, DepartmentID: "dept-sales"}
		_, err := env.svc.GetByID(ctx, stranger, req.ID)
		assert.ErrorIs(t, err, leave.ErrUnauthorized)
	})
}
