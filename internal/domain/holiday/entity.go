package holiday

import "time"

// Holiday entity. A holiday anchors on a calendar date and covers
// SpanDays consecutive days starting there.
type Holiday struct {
	ID       string
	Name     string
	Date     time.Time
	SpanDays int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// End returns the last day covered by the holiday.
func (h Holiday) End() time.Time {
	return CivilDate(h.Date).AddDate(0, 0, h.SpanDays-1)
}

// Covers reports whether day falls inside the holiday's effective range.
func (h Holiday) Covers(day time.Time) bool {
	d := CivilDate(day)
	start := CivilDate(h.Date)
	return !d.Before(start) && !d.After(h.End())
}
