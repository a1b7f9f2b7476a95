package holiday

import "errors"

var (
	ErrHolidayNotFound  = errors.New("holiday not found")
	ErrHolidayDateTaken = errors.New("a holiday already anchors on this date")
)
