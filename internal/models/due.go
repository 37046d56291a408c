package models

import (
	"fmt"
	"time"
)

// DueStatus tells how an expense stands against its date.
type DueStatus string

const (
	DuePaid     DueStatus = "paid"
	DueOverdue  DueStatus = "overdue"
	DueToday    DueStatus = "due_today"
	DueTomorrow DueStatus = "due_tomorrow"
	DueUpcoming DueStatus = "upcoming"
)

// dueSoonDays is the horizon within which an expense is reported as due in N days.
const dueSoonDays = 3

// Today returns the calendar date of now in loc, as a UTC midnight like the
// dates read from storage.
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DueStatus compares the transaction date with today. Income has no due
// status and yields "".
func (t *Transaction) DueStatus(today time.Time) DueStatus {
	if t.Kind() == KindIncome {
		return ""
	}
	if t.Paid {
		return DuePaid
	}

	y, m, d := t.Date.Date()
	due := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)

	switch {
	case days < 0:
		return DueOverdue
	case days == 0:
		return DueToday
	case days == 1:
		return DueTomorrow
	case days <= dueSoonDays:
		return DueStatus(fmt.Sprintf("due_in_%d_days", days))
	default:
		return DueUpcoming
	}
}
