package service

import (
	"testing"
	"time"

	"github.com/templui/goalwizard/internal/model"
)

func TestStreak(t *testing.T) {
	loc := time.UTC
	// Thursday
	today := time.Date(2026, 10, 15, 0, 0, 0, 0, loc)
	day := func(offset int) time.Time { return today.AddDate(0, 0, offset).Add(9 * time.Hour) }

	tests := []struct {
		name        string
		frequency   model.Frequency
		completions []time.Time
		want        int
	}{
		{
			name:        "daily three days then a gap",
			frequency:   model.FrequencyDaily,
			completions: []time.Time{day(0), day(-1), day(-2), day(-4)},
			want:        3,
		},
		{
			name:        "daily not done today",
			frequency:   model.FrequencyDaily,
			completions: []time.Time{day(-1), day(-2)},
			want:        0,
		},
		{
			name:        "daily duplicates count once",
			frequency:   model.FrequencyDaily,
			completions: []time.Time{day(0), day(0), day(-1)},
			want:        2,
		},
		{
			name:      "weekly current and previous week",
			frequency: model.FrequencyWeekly,
			// Sunday of this week, Saturday of last week, nothing two weeks back, then three weeks back
			completions: []time.Time{day(-4), day(-5), day(-21)},
			want:        2,
		},
		{
			name:        "weekly nothing this week",
			frequency:   model.FrequencyWeekly,
			completions: []time.Time{day(-7)},
			want:        0,
		},
		{
			name:      "monthly consecutive months",
			frequency: model.FrequencyMonthly,
			completions: []time.Time{
				time.Date(2026, 10, 2, 0, 0, 0, 0, loc),
				time.Date(2026, 9, 30, 0, 0, 0, 0, loc),
				time.Date(2026, 8, 1, 0, 0, 0, 0, loc),
				time.Date(2026, 6, 1, 0, 0, 0, 0, loc),
			},
			want: 3,
		},
		{
			name:        "no completions",
			frequency:   model.FrequencyDaily,
			completions: nil,
			want:        0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Streak(test.frequency, test.completions, today, loc)
			if got != test.want {
				t.Errorf("expected streak %d, got %d", test.want, got)
			}
		})
	}
}

func TestStreak_MonthlyFromMonthEnd(t *testing.T) {
	loc := time.UTC
	today := time.Date(2026, 3, 31, 0, 0, 0, 0, loc)
	completions := []time.Time{
		time.Date(2026, 3, 1, 0, 0, 0, 0, loc),
		time.Date(2026, 2, 28, 0, 0, 0, 0, loc),
		time.Date(2026, 1, 31, 0, 0, 0, 0, loc),
	}

	if got := Streak(model.FrequencyMonthly, completions, today, loc); got != 3 {
		t.Errorf("expected 3 consecutive months, got %d", got)
	}
}

func TestStreak_MonthlyAcrossYearBoundary(t *testing.T) {
	loc := time.UTC
	today := time.Date(2027, 1, 10, 0, 0, 0, 0, loc)
	completions := []time.Time{
		time.Date(2027, 1, 2, 0, 0, 0, 0, loc),
		time.Date(2026, 12, 30, 0, 0, 0, 0, loc),
		time.Date(2026, 10, 5, 0, 0, 0, 0, loc),
	}

	if got := Streak(model.FrequencyMonthly, completions, today, loc); got != 2 {
		t.Errorf("expected December and January to chain, got %d", got)
	}
}

func TestStreak_UsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	today := time.Date(2026, 10, 15, 0, 0, 0, 0, loc)
	// 02:00 UTC on the 16th is still the 15th locally
	lateEvening := time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC)

	if got := Streak(model.FrequencyDaily, []time.Time{lateEvening}, today, loc); got != 1 {
		t.Errorf("expected streak 1 in local calendar, got %d", got)
	}
	if !CompletedOn([]time.Time{lateEvening}, today, loc) {
		t.Error("expected completion to count for local today")
	}
}

func TestStartOfWeek(t *testing.T) {
	wednesday := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	got := StartOfWeek(wednesday, time.UTC)
	want := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got.Weekday() != time.Sunday {
		t.Errorf("expected Sunday, got %v", got.Weekday())
	}
}
