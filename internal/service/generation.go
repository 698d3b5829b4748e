package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goalwizard/internal/llm"
	"github.com/templui/goalwizard/internal/model"
	"github.com/templui/goalwizard/internal/validation"
)

const (
	questionCount  = 3
	minActions     = 6
	maxActions     = 10
	minMoreActions = 4
	maxMoreActions = 8
)

// GenerationService turns completion text into validated wizard data. It never writes.
type GenerationService struct {
	completer llm.Completer
	now       func() time.Time
}

// NewGenerationService accepts a nil completer; every call then fails with ErrCompleterMissing.
func NewGenerationService(completer llm.Completer) *GenerationService {
	return &GenerationService{
		completer: completer,
		now:       time.Now,
	}
}

type SmartResult struct {
	GoalTitle string      `json:"goalTitle"`
	Smart     model.SMART `json:"smart"`
}

func (s *GenerationService) Questions(ctx context.Context, userInput string) ([]string, error) {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return nil, inputError("userInput is required.")
	}

	raw, err := s.complete(ctx, llm.QuestionsRequest(userInput))
	if err != nil {
		return nil, err
	}

	questions, err := llm.FirstOf(raw,
		llm.DirectJSON(questionsFromObject),
		llm.EmbeddedJSON(questionsFromObject),
		llm.QuestionMarks(exactQuestions),
	)
	if err != nil {
		return nil, s.parseFailure("questions", raw, err)
	}
	return questions, nil
}

func (s *GenerationService) Smart(ctx context.Context, userInput string, answers []string) (*SmartResult, error) {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return nil, inputError("userInput is required.")
	}

	raw, err := s.complete(ctx, llm.SmartRequest(userInput, validation.CleanAnswers(answers)))
	if err != nil {
		return nil, err
	}

	result, err := llm.FirstOf(raw,
		llm.DirectJSON(smartFromObject),
		llm.EmbeddedJSON(smartFromObject),
	)
	if err != nil {
		return nil, s.parseFailure("smart", raw, err)
	}
	return result, nil
}

func (s *GenerationService) Actions(ctx context.Context, goalTitle string, smart model.SMART, targetID string) ([]model.ActionSuggestion, error) {
	goalTitle, smart, err := requireGoal(goalTitle, smart)
	if err != nil {
		return nil, err
	}

	raw, err := s.complete(ctx, llm.ActionsRequest(goalTitle, smart))
	if err != nil {
		return nil, err
	}

	shape := s.suggestionShape(strings.TrimSpace(targetID), true, minActions, maxActions)
	actions, err := llm.FirstOf(raw, llm.DirectJSON(shape), llm.EmbeddedJSON(shape))
	if err != nil {
		return nil, s.parseFailure("actions", raw, err)
	}
	return actions, nil
}

func (s *GenerationService) MoreActions(ctx context.Context, goalTitle string, smart model.SMART, previous []llm.PreviousAction, targetID string) ([]model.ActionSuggestion, error) {
	goalTitle, smart, err := requireGoal(goalTitle, smart)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(previous))
	cleaned := make([]llm.PreviousAction, 0, len(previous))
	for _, p := range previous {
		title := strings.TrimSpace(p.Title)
		if title == "" {
			continue
		}
		cleaned = append(cleaned, llm.PreviousAction{Title: title, Description: strings.TrimSpace(p.Description)})
		seen[validation.FoldTitle(title)] = true
	}

	raw, err := s.complete(ctx, llm.MoreActionsRequest(goalTitle, smart, cleaned))
	if err != nil {
		return nil, err
	}

	shape := s.suggestionShape(strings.TrimSpace(targetID), false, minMoreActions, maxMoreActions)
	actions, err := llm.FirstOf(raw, llm.DirectJSON(shape), llm.EmbeddedJSON(shape))
	if err != nil {
		return nil, s.parseFailure("more-actions", raw, err)
	}

	fresh := make([]model.ActionSuggestion, 0, len(actions))
	for _, a := range actions {
		if !seen[validation.FoldTitle(a.Title)] {
			fresh = append(fresh, a)
		}
	}
	if len(fresh) == 0 {
		return nil, inputError("Generated actions duplicated previous suggestions.")
	}
	return fresh, nil
}

func (s *GenerationService) complete(ctx context.Context, req llm.Request) (string, error) {
	if s.completer == nil {
		return "", ErrCompleterMissing
	}

	raw, err := s.completer.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return raw, nil
}

func (s *GenerationService) parseFailure(kind, raw string, err error) error {
	slog.Warn("completion rejected", "kind", kind, "length", len(raw), "error", err)
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}

func requireGoal(goalTitle string, smart model.SMART) (string, model.SMART, error) {
	goalTitle = strings.TrimSpace(goalTitle)
	cleaned, ok := validation.CleanSMART(smart)
	if goalTitle == "" || !ok {
		return "", model.SMART{}, inputError("goalTitle and SMART fields are required.")
	}
	return goalTitle, cleaned, nil
}

func questionsFromObject(obj map[string]any) ([]string, error) {
	items, ok := obj["questions"].([]any)
	if !ok {
		return nil, errors.New("questions is not a list")
	}

	questions := []string{}
	for _, item := range items {
		q := validation.CleanText(item)
		if !strings.HasSuffix(q, "?") {
			q += "?"
		}
		if len(q) > 1 {
			questions = append(questions, q)
		}
		if len(questions) == questionCount {
			break
		}
	}
	return exactQuestions(questions)
}

func exactQuestions(questions []string) ([]string, error) {
	if len(questions) != questionCount {
		return nil, fmt.Errorf("expected %d questions, got %d", questionCount, len(questions))
	}
	return questions, nil
}

func smartFromObject(obj map[string]any) (*SmartResult, error) {
	goalTitle := validation.CleanText(obj["goalTitle"])
	if goalTitle == "" {
		return nil, errors.New("goalTitle is empty")
	}

	smart, ok := validation.CleanSMART(obj["smart"])
	if !ok {
		return nil, errors.New("smart breakdown is incomplete")
	}
	return &SmartResult{GoalTitle: goalTitle, Smart: smart}, nil
}

// suggestionShape sanitises the "actions" list, keeps the first most entries
// and fails when fewer than least survive.
func (s *GenerationService) suggestionShape(fallbackTargetID string, ordered bool, least, most int) func(map[string]any) ([]model.ActionSuggestion, error) {
	return func(obj map[string]any) ([]model.ActionSuggestion, error) {
		items, ok := obj["actions"].([]any)
		if !ok {
			return nil, errors.New("actions is not a list")
		}

		now := s.now().UTC()
		actions := []model.ActionSuggestion{}
		for i, item := range items {
			fields, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if a, ok := suggestion(fields, i, fallbackTargetID, ordered, now); ok {
				actions = append(actions, a)
			}
		}

		if len(actions) > most {
			actions = actions[:most]
		}
		if len(actions) < least {
			return nil, fmt.Errorf("expected %d-%d actions, got %d", least, most, len(actions))
		}
		return actions, nil
	}
}

func suggestion(fields map[string]any, index int, fallbackTargetID string, ordered bool, now time.Time) (model.ActionSuggestion, bool) {
	title := validation.CleanText(fields["title"])
	if title == "" {
		return model.ActionSuggestion{}, false
	}

	a := model.ActionSuggestion{
		ActionID:       validation.CleanText(fields["actionId"]),
		TargetID:       validation.CleanText(fields["targetId"]),
		Title:          title,
		Description:    validation.CleanText(fields["description"]),
		Frequency:      validation.CleanFrequency(fields["frequency"]),
		CompletedDates: validation.CleanTimestamps(fields["completedDates"]),
		IsArchived:     fields["isArchived"] == true,
		CreatedAt:      now,
	}
	if a.ActionID == "" {
		a.ActionID = uuid.New().String()
	}
	if a.TargetID == "" {
		a.TargetID = fallbackTargetID
	}
	if a.Frequency.Repeats() {
		a.RepeatConfig = validation.CleanRepeatConfig(fields["repeatConfig"])
	}
	if createdAt, ok := validation.ParseTimestamp(fields["createdAt"]); ok {
		a.CreatedAt = createdAt
	}
	if ordered {
		a.Order = index + 1
		if order, ok := fields["order"].(float64); ok {
			a.Order = int(order)
		}
	}
	return a, true
}
