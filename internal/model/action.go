package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyOnce    Frequency = "once"
)

// Repeats reports whether the cadence carries a repeat configuration.
func (f Frequency) Repeats() bool {
	return f == FrequencyWeekly || f == FrequencyMonthly
}

type ActionStatus string

const (
	ActionStatusPending ActionStatus = "pending"
	ActionStatusDone    ActionStatus = "done"
)

// Weekday codes accepted in RepeatConfig.OnDays.
var WeekdayCodes = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

type RepeatConfig struct {
	OnDays     []string `json:"onDays,omitempty"`
	DayOfMonth int      `json:"dayOfMonth,omitempty"`
}

// Value keeps a nil *RepeatConfig as SQL NULL.
func (c RepeatConfig) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *RepeatConfig) Scan(src any) error {
	return scanJSON(src, c)
}

// TimeList is a JSON array of timestamps.
type TimeList []time.Time

func (l TimeList) Value() (driver.Value, error) {
	if l == nil {
		l = TimeList{}
	}
	b, err := json.Marshal([]time.Time(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *TimeList) Scan(src any) error {
	*l = TimeList{}
	return scanJSON(src, (*[]time.Time)(l))
}

type Action struct {
	ID             string        `db:"id" json:"actionId"`
	TargetID       string        `db:"target_id" json:"targetId"`
	UserID         string        `db:"user_id" json:"userId"`
	Title          string        `db:"title" json:"title"`
	Description    string        `db:"description" json:"description"`
	Frequency      Frequency     `db:"frequency" json:"frequency"`
	RepeatConfig   *RepeatConfig `db:"repeat_config" json:"repeatConfig,omitempty"`
	Deadline       time.Time     `db:"deadline" json:"deadline"`
	CompletedDates TimeList      `db:"completed_dates" json:"completedDates"`
	IsArchived     bool          `db:"is_archived" json:"isArchived"`
	Status         ActionStatus  `db:"status" json:"status"`
	Order          int           `db:"sort_order" json:"order"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updatedAt"`
}

// ActionWithGoal is the list view of an action with its target's title.
type ActionWithGoal struct {
	*Action
	GoalTitle string `json:"goalTitle"`
}

// ActionSuggestion is a generated, not yet persisted, action.
type ActionSuggestion struct {
	ActionID       string        `json:"actionId"`
	TargetID       string        `json:"targetId"`
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	Frequency      Frequency     `json:"frequency"`
	RepeatConfig   *RepeatConfig `json:"repeatConfig,omitempty"`
	Order          int           `json:"order,omitempty"`
	CompletedDates []time.Time   `json:"completedDates"`
	IsArchived     bool          `json:"isArchived"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// DashboardAction is an action annotated with its check-in state.
type DashboardAction struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Frequency        Frequency  `json:"frequency"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	IsActive         bool       `json:"isActive"`
	IsCompletedToday bool       `json:"isCompletedToday"`
	Streak           int        `json:"streak"`
}
