package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goalwizard/internal/model"
	"github.com/templui/goalwizard/internal/repository"
)

const (
	MessageCheckedIn        = "Action checked in successfully."
	MessageAlreadyCheckedIn = "Action already checked in for today."
)

type ActionService struct {
	actions     repository.ActionRepository
	targets     repository.TargetRepository
	completions repository.CompletionRepository
	loc         *time.Location
	now         func() time.Time
}

func NewActionService(
	actions repository.ActionRepository,
	targets repository.TargetRepository,
	completions repository.CompletionRepository,
	loc *time.Location,
) *ActionService {
	return &ActionService{
		actions:     actions,
		targets:     targets,
		completions: completions,
		loc:         loc,
		now:         time.Now,
	}
}

// List returns the caller's actions by deadline, each carrying its target's title.
func (s *ActionService) List(ctx context.Context, uid, targetID string) ([]model.ActionWithGoal, error) {
	actions, err := s.actions.Actions(ctx, uid, strings.TrimSpace(targetID))
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}

	var targetIDs []string
	seen := make(map[string]bool)
	for _, a := range actions {
		if a.TargetID != "" && !seen[a.TargetID] {
			seen[a.TargetID] = true
			targetIDs = append(targetIDs, a.TargetID)
		}
	}

	titles, err := s.targets.Titles(ctx, targetIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve goal titles: %w", err)
	}

	out := make([]model.ActionWithGoal, 0, len(actions))
	for _, a := range actions {
		out = append(out, model.ActionWithGoal{Action: a, GoalTitle: titles[a.TargetID]})
	}
	return out, nil
}

func (s *ActionService) UpdateStatus(ctx context.Context, uid, actionID, status string) error {
	actionID = strings.TrimSpace(actionID)
	if actionID == "" {
		return inputError("actionId is required.")
	}

	next := model.ActionStatus(status)
	if next != model.ActionStatusPending && next != model.ActionStatusDone {
		return inputError("Invalid status.")
	}

	if _, err := s.ownedAction(ctx, uid, actionID); err != nil {
		return err
	}
	return s.actions.UpdateStatus(ctx, actionID, next)
}

func (s *ActionService) Delete(ctx context.Context, uid, actionID string, mode DeleteMode) error {
	actionID = strings.TrimSpace(actionID)
	if actionID == "" {
		return inputError("actionId is required.")
	}

	if _, err := s.ownedAction(ctx, uid, actionID); err != nil {
		return err
	}

	if mode == DeleteHard {
		return s.actions.Delete(ctx, actionID)
	}
	return s.actions.Archive(ctx, actionID)
}

// Complete records today's check-in and returns the message for the caller.
// A second check-in on the same day succeeds without writing.
func (s *ActionService) Complete(ctx context.Context, uid, actionID, claimedUserID string) (string, error) {
	actionID = strings.TrimSpace(actionID)
	if actionID == "" {
		return "", inputError("actionId is required.")
	}
	if claimed := strings.TrimSpace(claimedUserID); claimed != "" && claimed != uid {
		return "", ErrForbidden
	}

	action, err := s.ownedAction(ctx, uid, actionID)
	if err != nil {
		return "", err
	}
	if action.IsArchived {
		return "", inputError("Action is not active.")
	}

	now := s.now()
	created, err := s.completions.Add(ctx, &model.Completion{
		ID:          uuid.New().String(),
		ActionID:    actionID,
		UserID:      uid,
		Day:         model.DayKey(now, s.loc),
		CompletedAt: now.UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to record completion: %w", err)
	}

	if !created {
		return MessageAlreadyCheckedIn, nil
	}
	return MessageCheckedIn, nil
}

func (s *ActionService) ownedAction(ctx context.Context, uid, actionID string) (*model.Action, error) {
	action, err := s.actions.ByID(ctx, actionID)
	if err != nil {
		if errors.Is(err, repository.ErrActionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get action: %w", err)
	}

	if action.UserID != uid {
		return nil, ErrForbidden
	}
	return action, nil
}
