package service

import (
	"time"

	"github.com/templui/goalwizard/internal/model"
)

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// StartOfWeek returns the Sunday that begins t's week.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	y, m, _ := t.In(loc).Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, loc)
}

// Streak counts consecutive periods, ending with the one containing today,
// in which at least one completion falls. Periods are keyed by their first
// calendar day so DST shifts never split a bucket.
func Streak(freq model.Frequency, completions []time.Time, today time.Time, loc *time.Location) int {
	var bucket func(time.Time) time.Time
	var step func(time.Time) time.Time

	switch freq {
	case model.FrequencyWeekly:
		bucket = func(t time.Time) time.Time { return StartOfWeek(t, loc) }
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, -7) }
	case model.FrequencyMonthly:
		bucket = func(t time.Time) time.Time { return StartOfMonth(t, loc) }
		step = func(t time.Time) time.Time { return t.AddDate(0, -1, 0) }
	default:
		bucket = func(t time.Time) time.Time { return StartOfDay(t, loc) }
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, -1) }
	}

	filled := make(map[string]bool, len(completions))
	for _, c := range completions {
		filled[model.DayKey(bucket(c), loc)] = true
	}

	streak := 0
	for cursor := bucket(today); filled[model.DayKey(cursor, loc)]; cursor = step(cursor) {
		streak++
	}
	return streak
}

// CompletedOn reports whether any completion falls on day's calendar date.
func CompletedOn(completions []time.Time, day time.Time, loc *time.Location) bool {
	key := model.DayKey(day, loc)
	for _, c := range completions {
		if model.DayKey(c, loc) == key {
			return true
		}
	}
	return false
}
