package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/leavedesk/leave-backend-go/internal/domain/leave"
)

type QuotaService struct {
	leave.QuotaRepository
}

func NewQuotaService(quotaRepository leave.QuotaRepository) *QuotaService {
	return &QuotaService{QuotaRepository: quotaRepository}
}

// MyQuota returns the employee's ledger for one year, defaulting to the
// current year when none is given.
func (s *QuotaService) MyQuota(ctx context.Context, employeeID string, year int) ([]leave.Quota, error) {
	if year <= 0 {
		year = time.Now().UTC().Year()
	}

	quotas, err := s.QuotaRepository.GetByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get quotas: %w", err)
	}

	return quotas, nil
}

// SetAllocationForAll writes the same allocation for every employee for a
// category and year, creating missing ledger rows along the way.
func (s *QuotaService) SetAllocationForAll(ctx context.Context, req leave.SetAllocationRequest) (leave.BulkResult, error) {
	rows, err := s.QuotaRepository.SetAllocationForAll(ctx, leave.Category(req.Category), req.Year, req.Days)
	if err != nil {
		return leave.BulkResult{}, fmt.Errorf("failed to set allocation: %w", err)
	}

	return leave.BulkResult{RowsAffected: rows}, nil
}

// ResetUsedForAll zeroes the used counters for a year. Allocations are
// left untouched.
func (s *QuotaService) ResetUsedForAll(ctx context.Context, req leave.ResetUsedRequest) (leave.BulkResult, error) {
	rows, err := s.QuotaRepository.ResetUsedForAll(ctx, req.Year)
	if err != nil {
		return leave.BulkResult{}, fmt.Errorf("failed to reset used counters: %w", err)
	}

	return leave.BulkResult{RowsAffected: rows}, nil
}

// ResetUsedForYear is the scheduler entry point for the year rollover.
func (s *QuotaService) ResetUsedForYear(ctx context.Context, year int) (int64, error) {
	return s.QuotaRepository.ResetUsedForAll(ctx, year)
}
