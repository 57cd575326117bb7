package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkingDaysBetween(t *testing.T) {
	policy := DefaultDeadlinePolicy()

	// Monday to the Friday of the same week: Tuesday through Thursday.
	from := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 11, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, policy.WorkingDaysBetween(from, to))
}

func TestWorkingDaysBetweenSkipsWeekend(t *testing.T) {
	policy := DefaultDeadlinePolicy()

	// Friday to Monday spans no full working day.
	from := time.Date(2026, 9, 4, 18, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, policy.WorkingDaysBetween(from, to))
}

func TestWorkingDaysBetweenSkipsHolidays(t *testing.T) {
	policy := DefaultDeadlinePolicy()

	// 11 November is a fixed holiday; only Tuesday and Thursday count.
	from := time.Date(2026, 11, 9, 8, 0, 0, 0, time.UTC)
	to := time.Date(2026, 11, 13, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, policy.WorkingDaysBetween(from, to))
}

func TestWorkingDaysBetweenNonPositiveRange(t *testing.T) {
	policy := DefaultDeadlinePolicy()

	at := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, policy.WorkingDaysBetween(at, at))
	assert.Equal(t, 0, policy.WorkingDaysBetween(at.AddDate(0, 0, 1), at))
}

func TestDeadlineAllowsMondayEvening(t *testing.T) {
	policy := DefaultDeadlinePolicy()
	now := time.Date(2026, 9, 7, 18, 0, 0, 0, time.UTC)

	// Monday 18h: Thursday is fine, Wednesday is not.
	assert.True(t, policy.Allows(now, time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)))
	assert.False(t, policy.Allows(now, time.Date(2026, 9, 9, 18, 0, 0, 0, time.UTC)))
}

func TestDeadlineAllowsFridayEvening(t *testing.T) {
	policy := DefaultDeadlinePolicy()
	now := time.Date(2026, 9, 4, 18, 0, 0, 0, time.UTC)

	// Friday 18h: the weekend counts for nothing, so Wednesday is the
	// first reachable course day.
	assert.True(t, policy.Allows(now, time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)))
	assert.False(t, policy.Allows(now, time.Date(2026, 9, 8, 18, 0, 0, 0, time.UTC)))
}
