package service

import (
	"fmt"
	"time"
)

// DeadlinePolicy enforces the minimum notice between submitting a request
// and the requested course. The "48 working hours" rule counts full
// intervening working days: at least NoticeDays weekdays, holidays
// excluded, must separate the submission day from the course day. Both
// endpoint days are left out, so a Monday evening submission is still in
// time for a Thursday morning course.
type DeadlinePolicy struct {
	NoticeDays int
	// Holidays lists fixed-date closures as "MM-DD".
	Holidays []string
}

// DefaultDeadlinePolicy returns the policy the lab runs with: two full
// working days of notice, French fixed holidays.
func DefaultDeadlinePolicy() DeadlinePolicy {
	return DeadlinePolicy{
		NoticeDays: 2,
		Holidays:   []string{"01-01", "05-01", "05-08", "07-14", "08-15", "11-01", "11-11", "12-25"},
	}
}

// Allows reports whether a course starting at courseStart may still be
// requested at now.
func (p DeadlinePolicy) Allows(now, courseStart time.Time) bool {
	return p.WorkingDaysBetween(now, courseStart) >= p.NoticeDays
}

// WorkingDaysBetween counts the full working days strictly between the
// day of from and the day of to. A non-positive range yields zero.
func (p DeadlinePolicy) WorkingDaysBetween(from, to time.Time) int {
	holidays := make(map[string]bool, len(p.Holidays))
	for _, h := range p.Holidays {
		holidays[h] = true
	}

	cursor := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()).AddDate(0, 0, 1)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())

	count := 0
	for ; cursor.Before(end); cursor = cursor.AddDate(0, 0, 1) {
		if cursor.Weekday() == time.Saturday || cursor.Weekday() == time.Sunday {
			continue
		}
		if holidays[cursor.Format("01-02")] {
			continue
		}
		count++
	}
	return count
}

// courseStartTime combines the course date with a parsed start token in
// the date's location.
func courseStartTime(date time.Time, startMinutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, startMinutes, 0, 0, date.Location())
}

func formatDate(date time.Time) string {
	return date.Format("2006-01-02")
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return date, nil
}
