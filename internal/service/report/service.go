package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/leavedesk/leave-backend-go/internal/domain/holiday"
	"github.com/leavedesk/leave-backend-go/internal/domain/leave"
	"github.com/leavedesk/leave-backend-go/internal/domain/report"
)

type Service struct {
	leave.LeaveRequestRepository
	holiday.HolidayRepository
}

func NewService(
	requestRepository leave.LeaveRequestRepository,
	holidayRepository holiday.HolidayRepository,
) *Service {
	return &Service{
		LeaveRequestRepository: requestRepository,
		HolidayRepository:      holidayRepository,
	}
}

// Summary aggregates approved leave per department over a month or a
// year. Each request contributes its working-day overlap with the window,
// so a request spanning the window boundary is counted only for the days
// inside it.
func (s *Service) Summary(ctx context.Context, req report.SummaryRequest) (report.Summary, error) {
	periodStart, periodEnd := periodBounds(req)

	requests, err := s.LeaveRequestRepository.ApprovedIntersecting(ctx, periodStart, periodEnd, req.DepartmentID)
	if err != nil {
		return report.Summary{}, fmt.Errorf("failed to list approved requests: %w", err)
	}

	holidays, err := s.HolidayRepository.List(ctx)
	if err != nil {
		return report.Summary{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	cal := holiday.NewCalendar(holidays)

	byDept := map[string]*report.DepartmentSummary{}
	for _, r := range requests {
		entry, ok := byDept[r.DepartmentID]
		if !ok {
			entry = &report.DepartmentSummary{DepartmentID: r.DepartmentID}
			if r.DepartmentName != nil {
				entry.DepartmentName = *r.DepartmentName
			}
			byDept[r.DepartmentID] = entry
		}
		entry.RequestCount++
		entry.LeaveDays += cal.OverlapDays(r.StartDate, r.EndDate, periodStart, periodEnd)
	}

	summary := report.Summary{
		Period: req.Period,
		Year:   req.Year,
		Month:  req.Month,
	}
	for _, entry := range byDept {
		summary.Departments = append(summary.Departments, *entry)
		summary.TotalDays += entry.LeaveDays
		summary.TotalCount += entry.RequestCount
	}
	sort.Slice(summary.Departments, func(i, j int) bool {
		return summary.Departments[i].DepartmentName < summary.Departments[j].DepartmentName
	})

	return summary, nil
}

func periodBounds(req report.SummaryRequest) (time.Time, time.Time) {
	if report.Period(req.Period) == report.PeriodMonthly && req.Month != nil {
		start := time.Date(req.Year, time.Month(*req.Month), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	}
	start := time.Date(req.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, time.Date(req.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
}
