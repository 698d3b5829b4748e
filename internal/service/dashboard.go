package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/goalwizard/internal/model"
	"github.com/templui/goalwizard/internal/repository"
)

// completionWindow bounds how much history feeds a streak.
const completionWindow = 120

type DashboardService struct {
	actions     repository.ActionRepository
	completions repository.CompletionRepository
	loc         *time.Location
	now         func() time.Time
}

func NewDashboardService(
	actions repository.ActionRepository,
	completions repository.CompletionRepository,
	loc *time.Location,
) *DashboardService {
	return &DashboardService{
		actions:     actions,
		completions: completions,
		loc:         loc,
		now:         time.Now,
	}
}

// Actions returns the caller's active actions with today's state and streak.
func (s *DashboardService) Actions(ctx context.Context, uid, claimedUserID string) ([]model.DashboardAction, error) {
	if claimed := strings.TrimSpace(claimedUserID); claimed != "" && claimed != uid {
		return nil, ErrForbidden
	}

	actions, err := s.actions.Actions(ctx, uid, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}

	today := StartOfDay(s.now(), s.loc)
	out := []model.DashboardAction{}
	for _, a := range actions {
		entry, err := s.entry(ctx, a, today)
		if err != nil {
			return nil, err
		}
		if entry.IsActive {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *DashboardService) entry(ctx context.Context, a *model.Action, today time.Time) (model.DashboardAction, error) {
	frequency := a.Frequency
	if frequency != model.FrequencyWeekly && frequency != model.FrequencyMonthly {
		frequency = model.FrequencyDaily
	}

	completions, err := s.completions.Recent(ctx, a.ID, completionWindow)
	if err != nil {
		return model.DashboardAction{}, fmt.Errorf("failed to load completions: %w", err)
	}

	dates := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		d, err := c.Date(s.loc)
		if err != nil {
			slog.Warn("skipping malformed completion day", "completion_id", c.ID, "day", c.Day)
			continue
		}
		dates = append(dates, d)
	}

	entry := model.DashboardAction{
		ID:               a.ID,
		Title:            a.Title,
		Description:      a.Description,
		Frequency:        frequency,
		IsActive:         !a.IsArchived,
		IsCompletedToday: CompletedOn(dates, today, s.loc),
		Streak:           Streak(frequency, dates, today, s.loc),
	}
	if !a.CreatedAt.IsZero() {
		start := a.CreatedAt.UTC()
		entry.StartDate = &start
	}
	if !a.Deadline.IsZero() {
		end := a.Deadline.UTC()
		entry.EndDate = &end
	}
	return entry, nil
}
