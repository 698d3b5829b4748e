package model

import (
	"time"
)

// DayLayout is the calendar-day key stored on completions.
const DayLayout = "2006-01-02"

type Completion struct {
	ID          string    `db:"id"`
	ActionID    string    `db:"action_id"`
	UserID      string    `db:"user_id"`
	Day         string    `db:"completion_day"`
	CompletedAt time.Time `db:"completed_at"`
}

// DayKey formats t as the calendar day it falls on in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// Date is the completion day at midnight in loc.
func (c Completion) Date(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayLayout, c.Day, loc)
}
