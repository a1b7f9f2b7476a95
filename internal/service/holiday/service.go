package holiday

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leavedesk/leave-backend-go/internal/domain/holiday"
)

type Service struct {
	holiday.HolidayRepository
}

func NewService(holidayRepository holiday.HolidayRepository) *Service {
	return &Service{HolidayRepository: holidayRepository}
}

// Create declares a holiday. Two holidays may not anchor on the same
// date, even when their spans would not otherwise overlap.
func (s *Service) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.Holiday, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to parse holiday date: %w", err)
	}
	date = holiday.CivilDate(date)

	if _, err := s.HolidayRepository.GetByDate(ctx, date); err == nil {
		return holiday.Holiday{}, holiday.ErrHolidayDateTaken
	} else if !errors.Is(err, holiday.ErrHolidayNotFound) {
		return holiday.Holiday{}, fmt.Errorf("failed to check holiday date: %w", err)
	}

	created, err := s.HolidayRepository.Create(ctx, holiday.Holiday{
		Name:     req.Name,
		Date:     date,
		SpanDays: req.SpanDays,
	})
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	return s.HolidayRepository.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]holiday.Holiday, error) {
	holidays, err := s.HolidayRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holidays, nil
}

func (s *Service) Update(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.Holiday, error) {
	existing, err := s.HolidayRepository.GetByID(ctx, req.ID)
	if err != nil {
		return holiday.Holiday{}, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.SpanDays != nil {
		existing.SpanDays = *req.SpanDays
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return holiday.Holiday{}, fmt.Errorf("failed to parse holiday date: %w", err)
		}
		date = holiday.CivilDate(date)

		if !date.Equal(holiday.CivilDate(existing.Date)) {
			if other, err := s.HolidayRepository.GetByDate(ctx, date); err == nil && other.ID != existing.ID {
				return holiday.Holiday{}, holiday.ErrHolidayDateTaken
			} else if err != nil && !errors.Is(err, holiday.ErrHolidayNotFound) {
				return holiday.Holiday{}, fmt.Errorf("failed to check holiday date: %w", err)
			}
		}
		existing.Date = date
	}

	if err := s.HolidayRepository.Update(ctx, existing); err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to update holiday: %w", err)
	}

	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.HolidayRepository.Delete(ctx, id)
}
