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
	"github.com/templui/goalwizard/internal/validation"
)

type DeleteMode string

const (
	DeleteSoft DeleteMode = "soft"
	DeleteHard DeleteMode = "hard"
)

// ParseDeleteMode only opts into hard deletes when asked explicitly.
func ParseDeleteMode(v string) DeleteMode {
	if strings.EqualFold(strings.TrimSpace(v), string(DeleteHard)) {
		return DeleteHard
	}
	return DeleteSoft
}

// SaveGoalInput is the wizard's final payload. Action fields stay loosely
// typed because clients send dates as strings or epoch millis.
type SaveGoalInput struct {
	UserID    string            `json:"userId"`
	GoalTitle string            `json:"goalTitle"`
	Smart     model.SMART       `json:"smart"`
	Actions   []SaveActionInput `json:"actions"`
}

type SaveActionInput struct {
	ActionID     string `json:"actionId"`
	Title        any    `json:"title"`
	Description  any    `json:"description"`
	Frequency    any    `json:"frequency"`
	RepeatConfig any    `json:"repeatConfig"`
	Order        any    `json:"order"`
	CreatedAt    any    `json:"createdAt"`
	UserDeadline any    `json:"userDeadline"`
	Deadline     any    `json:"deadline"`
}

type GoalService struct {
	targets repository.TargetRepository
	now     func() time.Time
}

func NewGoalService(targets repository.TargetRepository) *GoalService {
	return &GoalService{
		targets: targets,
		now:     time.Now,
	}
}

// Save creates a target and its actions in one write and returns the new target id.
// Saving the same payload twice creates two independent targets.
func (s *GoalService) Save(ctx context.Context, uid string, in SaveGoalInput) (string, error) {
	if owner := strings.TrimSpace(in.UserID); owner != "" && owner != uid {
		return "", ErrForbidden
	}

	goalTitle := strings.TrimSpace(in.GoalTitle)
	if goalTitle == "" {
		return "", inputError("goalTitle is required.")
	}

	smart, ok := validation.CleanSMART(in.Smart)
	if !ok {
		return "", inputError("SMART details are incomplete.")
	}

	if len(in.Actions) == 0 {
		return "", inputError("At least one action is required.")
	}

	now := s.now().UTC()
	target := &model.Target{
		ID:        uuid.New().String(),
		UserID:    uid,
		Title:     goalTitle,
		Status:    model.TargetStatusActive,
		Smart:     smart,
		CreatedAt: now,
		UpdatedAt: now,
	}

	actions := make([]*model.Action, 0, len(in.Actions))
	for i, raw := range in.Actions {
		action, err := buildAction(raw, i, target, now)
		if err != nil {
			return "", err
		}
		actions = append(actions, action)
	}

	err := s.targets.CreateWithActions(ctx, target, actions)
	if err != nil {
		return "", fmt.Errorf("failed to save goal: %w", err)
	}

	return target.ID, nil
}

func buildAction(in SaveActionInput, index int, target *model.Target, now time.Time) (*model.Action, error) {
	title := validation.CleanText(in.Title)
	if title == "" {
		return nil, inputError(fmt.Sprintf("actions[%d].title is required.", index))
	}

	deadlineRaw := in.UserDeadline
	if deadlineRaw == nil {
		deadlineRaw = in.Deadline
	}
	deadline, ok := validation.ParseTimestamp(deadlineRaw)
	if !ok {
		return nil, inputError(fmt.Sprintf("actions[%d].userDeadline must be a valid date.", index))
	}

	action := &model.Action{
		ID:             strings.TrimSpace(in.ActionID),
		TargetID:       target.ID,
		UserID:         target.UserID,
		Title:          title,
		Description:    validation.CleanText(in.Description),
		Frequency:      validation.CleanFrequency(in.Frequency),
		Deadline:       deadline,
		CompletedDates: model.TimeList{},
		IsArchived:     false,
		Status:         model.ActionStatusPending,
		Order:          index + 1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if action.ID == "" {
		action.ID = uuid.New().String()
	}
	if action.Frequency.Repeats() {
		action.RepeatConfig = validation.CleanRepeatConfig(in.RepeatConfig)
	}
	if order, ok := in.Order.(float64); ok {
		action.Order = int(order)
	}
	if createdAt, ok := validation.ParseTimestamp(in.CreatedAt); ok {
		action.CreatedAt = createdAt
	}
	return action, nil
}

func (s *GoalService) Targets(ctx context.Context, uid string, includeArchived bool) ([]*model.Target, error) {
	return s.targets.Targets(ctx, uid, includeArchived)
}

// SetArchived archives or restores a target together with all of its actions.
func (s *GoalService) SetArchived(ctx context.Context, uid, targetID string, archived bool) (int64, error) {
	if _, err := s.ownedTarget(ctx, uid, targetID); err != nil {
		return 0, err
	}
	return s.targets.SetArchived(ctx, targetID, archived)
}

// Delete archives the target by default; DeleteHard removes it with its actions.
// It returns the number of actions affected.
func (s *GoalService) Delete(ctx context.Context, uid, targetID string, mode DeleteMode) (int64, error) {
	if _, err := s.ownedTarget(ctx, uid, targetID); err != nil {
		return 0, err
	}

	if mode == DeleteHard {
		return s.targets.Delete(ctx, targetID)
	}
	return s.targets.SetArchived(ctx, targetID, true)
}

func (s *GoalService) ownedTarget(ctx context.Context, uid, targetID string) (*model.Target, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return nil, inputError("targetId is required.")
	}

	target, err := s.targets.ByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrTargetNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get target: %w", err)
	}

	if target.UserID != uid {
		return nil, ErrForbidden
	}
	return target, nil
}
