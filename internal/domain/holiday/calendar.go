package holiday

import "time"

// Calendar answers working-day questions against a snapshot of the holiday
// list. It holds no mutable state; callers rebuild it from the latest
// committed holiday set whenever they need fresh numbers.
type Calendar struct {
	covered map[time.Time]struct{}
}

// CivilDate strips the time-of-day and normalizes to UTC so that day
// comparisons never shift across timezones.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewCalendar expands every holiday span into a per-day lookup.
func NewCalendar(holidays []Holiday) *Calendar {
	covered := make(map[time.Time]struct{})
	for _, h := range holidays {
		day := CivilDate(h.Date)
		span := h.SpanDays
		if span < 1 {
			span = 1
		}
		for i := 0; i < span; i++ {
			covered[day.AddDate(0, 0, i)] = struct{}{}
		}
	}
	return &Calendar{covered: covered}
}

// IsWorkingDay reports whether day is neither a weekend nor holiday-covered.
func (c *Calendar) IsWorkingDay(day time.Time) bool {
	d := CivilDate(day)
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, holiday := c.covered[d]
	return !holiday
}

// WorkingDays counts working days in [start, end] inclusive. An inverted
// range yields 0.
func (c *Calendar) WorkingDays(start, end time.Time) int {
	from, to := CivilDate(start), CivilDate(end)

	count := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if c.IsWorkingDay(day) {
			count++
		}
	}
	return count
}

// OverlapDays counts the working days of [leaveStart, leaveEnd] that fall
// inside [periodStart, periodEnd]. Disjoint ranges yield 0.
func (c *Calendar) OverlapDays(leaveStart, leaveEnd, periodStart, periodEnd time.Time) int {
	start := CivilDate(leaveStart)
	if p := CivilDate(periodStart); p.After(start) {
		start = p
	}
	end := CivilDate(leaveEnd)
	if p := CivilDate(periodEnd); p.Before(end) {
		end = p
	}
	if start.After(end) {
		return 0
	}
	return c.WorkingDays(start, end)
}

// CalendarDays returns the inclusive calendar-day count of [start, end],
// or 0 for an inverted range. Quota checks at request creation use this
// raw count, not WorkingDays; final-approval deduction uses OverlapDays.
// The asymmetry is deliberate and must not be "fixed" silently.
func CalendarDays(start, end time.Time) int {
	from, to := CivilDate(start), CivilDate(end)
	if from.After(to) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}
