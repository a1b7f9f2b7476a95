package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leavedesk/leave-backend-go/internal/domain/holiday"
	"github.com/leavedesk/leave-backend-go/internal/domain/leave"
	"github.com/leavedesk/leave-backend-go/internal/domain/user"
	"github.com/leavedesk/leave-backend-go/internal/pkg/database"
	"github.com/leavedesk/leave-backend-go/internal/pkg/email"
	"github.com/leavedesk/leave-backend-go/internal/repository/postgresql"
	"github.com/leavedesk/leave-backend-go/internal/service/file"
)

type RequestService struct {
	db *database.DB
	leave.LeaveRequestRepository
	leave.QuotaRepository
	leave.AuditLogRepository
	leave.AlternateRepository
	user.UserRepository
	holiday.HolidayRepository
	files file.Service
	email email.EmailService

	// runTx wraps the unit-of-work helper so tests can run against fakes.
	runTx func(ctx context.Context, fn func(txCtx context.Context) error) error
}

func NewRequestService(
	db *database.DB,
	requestRepository leave.LeaveRequestRepository,
	quotaRepository leave.QuotaRepository,
	auditLogRepository leave.AuditLogRepository,
	alternateRepository leave.AlternateRepository,
	userRepository user.UserRepository,
	holidayRepository holiday.HolidayRepository,
	fileService file.Service,
	emailService email.EmailService,
) *RequestService {
	s := &RequestService{
		db:                     db,
		LeaveRequestRepository: requestRepository,
		QuotaRepository:        quotaRepository,
		AuditLogRepository:     auditLogRepository,
		AlternateRepository:    alternateRepository,
		UserRepository:         userRepository,
		HolidayRepository:      holidayRepository,
		files:                  fileService,
		email:                  emailService,
	}
	s.runTx = func(ctx context.Context, fn func(txCtx context.Context) error) error {
		return postgresql.WithTransaction(ctx, s.db, fn)
	}
	return s
}

// Create files a new leave request in the pending state. The quota check
// here is deliberately coarse: it compares the raw inclusive calendar-day
// span against the remaining quota for the start date's year. The precise
// working-day deduction happens only at final approval.
func (s *RequestService) Create(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequest, error) {
	emp, err := s.UserRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.DepartmentID == nil {
		return leave.LeaveRequest{}, leave.ErrNoDepartment
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse end date: %w", err)
	}
	startDate = holiday.CivilDate(startDate)
	endDate = holiday.CivilDate(endDate)

	category := leave.Category(req.Category)
	totalDays := holiday.CalendarDays(startDate, endDate)

	quota, err := s.QuotaRepository.GetByEmployeeCategoryYear(ctx, emp.ID, category, startDate.Year())
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if totalDays > quota.Remaining() {
		return leave.LeaveRequest{}, leave.ErrInsufficientQuota
	}

	var attachmentURL *string
	if req.File != nil && req.FileHeader != nil {
		url, err := s.files.UploadLeaveAttachment(ctx, emp.ID, req.File, req.FileHeader)
		if err != nil {
			return leave.LeaveRequest{}, err
		}
		attachmentURL = &url
	}

	request := leave.LeaveRequest{
		EmployeeID:    emp.ID,
		DepartmentID:  *emp.DepartmentID,
		Category:      category,
		StartDate:     startDate,
		EndDate:       endDate,
		TotalDays:     totalDays,
		Reason:        req.Reason,
		AttachmentURL: attachmentURL,
		State:         leave.StatePending,
	}

	var created leave.LeaveRequest
	err = s.runTx(ctx, func(txCtx context.Context) error {
		created, err = s.LeaveRequestRepository.Create(txCtx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		for _, colleagueID := range req.AlternateIDs {
			if _, err := s.UserRepository.GetByID(txCtx, colleagueID); err != nil {
				return fmt.Errorf("failed to get alternate colleague: %w", err)
			}
			alt, err := s.AlternateRepository.Create(txCtx, leave.AlternateRequest{
				RequestID:   created.ID,
				ColleagueID: colleagueID,
				Response:    leave.AlternatePending,
			})
			if err != nil {
				return fmt.Errorf("failed to create alternate request: %w", err)
			}
			created.Alternates = append(created.Alternates, alt)
		}

		if _, err := s.AuditLogRepository.Append(txCtx, leave.AuditEntry{
			RequestID: created.ID,
			ActorID:   emp.ID,
			Action:    leave.ActionApplied,
		}); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	created.EmployeeName = &emp.FullName
	return created, nil
}

// Decide applies a single HoD or HR decision to a request. The state
// update, the quota deduction and the audit entry commit or roll back
// together; the employee notification goes out only after commit.
func (s *RequestService) Decide(ctx context.Context, actor user.Actor, requestID string, req leave.DecisionRequest) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	// A HoD only ever decides within their own department. HR sees all.
	if actor.Role == user.RoleHoD && actor.DepartmentID != request.DepartmentID {
		return leave.LeaveRequest{}, leave.ErrUnauthorized
	}

	next, err := leave.Transition(request.State, actor.Role, leave.Decision(req.Action))
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	decidedAt := time.Now()
	err = s.runTx(ctx, func(txCtx context.Context) error {
		if err := s.LeaveRequestRepository.UpdateDecision(txCtx, request.ID, request.State, next, actor.Role, req.Remarks, actor.ID, decidedAt); err != nil {
			return err
		}

		if next == leave.StateApproved {
			days, err := s.deductibleDays(txCtx, request)
			if err != nil {
				return err
			}
			if days > 0 {
				if err := s.QuotaRepository.Deduct(txCtx, request.EmployeeID, request.Category, request.StartDate.Year(), days); err != nil {
					return fmt.Errorf("failed to deduct quota: %w", err)
				}
			}
		}

		if _, err := s.AuditLogRepository.Append(txCtx, leave.AuditEntry{
			RequestID: request.ID,
			ActorID:   actor.ID,
			Action:    leave.AuditAction(next),
			Notes:     req.Remarks,
		}); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request.State = next
	request.DecidedBy = &actor.ID
	request.DecidedAt = &decidedAt
	if actor.Role == user.RoleHoD {
		request.HoDRemark = req.Remarks
	} else {
		request.HRRemark = req.Remarks
	}

	if next.Terminal() {
		s.notifyDecision(ctx, request, req.Remarks)
	}

	return request, nil
}

// PendingApprovals returns the work queue for the acting role: a HoD sees
// pending requests in their department, HR sees HoD-approved requests
// across the company.
func (s *RequestService) PendingApprovals(ctx context.Context, actor user.Actor) ([]leave.LeaveRequest, error) {
	switch actor.Role {
	case user.RoleHoD:
		return s.LeaveRequestRepository.PendingForHoD(ctx, actor.DepartmentID)
	case user.RoleHR:
		return s.LeaveRequestRepository.PendingForHR(ctx)
	}
	return nil, leave.ErrUnauthorized
}

func (s *RequestService) MyRequests(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	requests, err := s.LeaveRequestRepository.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	for i := range requests {
		alts, err := s.AlternateRepository.ListByRequest(ctx, requests[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list alternate requests: %w", err)
		}
		requests[i].Alternates = alts
	}

	return requests, nil
}

func (s *RequestService) GetByID(ctx context.Context, actor user.Actor, requestID string) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	if !s.canView(actor, request) {
		return leave.LeaveRequest{}, leave.ErrUnauthorized
	}

	alts, err := s.AlternateRepository.ListByRequest(ctx, request.ID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to list alternate requests: %w", err)
	}
	request.Alternates = alts

	return request, nil
}

func (s *RequestService) History(ctx context.Context, actor user.Actor, requestID string) ([]leave.AuditEntry, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, request) {
		return nil, leave.ErrUnauthorized
	}

	return s.AuditLogRepository.ListByRequest(ctx, requestID)
}

// RespondAlternate records a colleague's "ok" or "sorry". The response is
// informational for the approvers and never blocks the request.
func (s *RequestService) RespondAlternate(ctx context.Context, actor user.Actor, alternateID string, req leave.AlternateResponseRequest) (leave.AlternateRequest, error) {
	alt, err := s.AlternateRepository.GetByID(ctx, alternateID)
	if err != nil {
		return leave.AlternateRequest{}, err
	}

	if alt.ColleagueID != actor.ID {
		return leave.AlternateRequest{}, leave.ErrUnauthorized
	}

	response := leave.AlternateResponse(req.Response)
	if err := s.AlternateRepository.UpdateResponse(ctx, alt.ID, response); err != nil {
		return leave.AlternateRequest{}, err
	}

	alt.Response = response
	return alt, nil
}

func (s *RequestService) canView(actor user.Actor, request leave.LeaveRequest) bool {
	switch {
	case actor.ID == request.EmployeeID:
		return true
	case actor.Role == user.RoleHR:
		return true
	case actor.Role == user.RoleHoD && actor.DepartmentID == request.DepartmentID:
		return true
	}
	return false
}

// deductibleDays counts the working days of the leave that fall inside the
// allocation year of the start date. Weekends, holidays and days spilling
// into the next year never consume quota.
func (s *RequestService) deductibleDays(ctx context.Context, request leave.LeaveRequest) (int, error) {
	holidays, err := s.HolidayRepository.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list holidays: %w", err)
	}

	year := request.StartDate.Year()
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	cal := holiday.NewCalendar(holidays)
	return cal.OverlapDays(request.StartDate, request.EndDate, yearStart, yearEnd), nil
}

func (s *RequestService) notifyDecision(ctx context.Context, request leave.LeaveRequest, remark *string) {
	emp, err := s.UserRepository.GetByID(ctx, request.EmployeeID)
	if err != nil {
		slog.Error("failed to load employee for decision notice", "request_id", request.ID, "error", err)
		return
	}

	err = s.email.SendDecisionNotice(
		emp.Email,
		emp.FullName,
		string(request.Category),
		request.StartDate.Format("2006-01-02"),
		request.EndDate.Format("2006-01-02"),
		leave.DisplayStatus(request.State),
		remark,
	)
	if err != nil {
		slog.Error("failed to send decision notice", "request_id", request.ID, "error", err)
	}
}
