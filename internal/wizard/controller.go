package wizard

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/templui/goalwizard/internal/client"
	"github.com/templui/goalwizard/internal/model"
	"github.com/templui/goalwizard/internal/validation"
)

// ErrBusy is returned when a request is started while another is in flight.
var ErrBusy = errors.New("wizard: a request is already in progress")

const SavedMessage = "Your goal plan has been saved. You can revisit it anytime in your dashboard."

// Generator is the API surface the wizard drives. *client.Client implements it.
type Generator interface {
	GenerateQuestions(ctx context.Context, userInput string) ([]string, error)
	GenerateSmart(ctx context.Context, userInput string, answers []string) (*client.SmartResult, error)
	GenerateActions(ctx context.Context, goalTitle string, smart model.SMART, targetID string) ([]model.ActionSuggestion, error)
	GenerateMoreActions(ctx context.Context, goalTitle string, smart model.SMART, previous []client.PreviousAction, targetID string) ([]model.ActionSuggestion, error)
	SaveGoal(ctx context.Context, req client.SaveGoalRequest) (string, error)
}

type Controller struct {
	session *Session
	gen     Generator
	userID  string
	busy    atomic.Bool
	now     func() time.Time
}

func NewController(session *Session, gen Generator, userID string) *Controller {
	if session == nil {
		session = NewSession()
	}
	session.Step = clampStep(session.Step)
	return &Controller{
		session: session,
		gen:     gen,
		userID:  strings.TrimSpace(userID),
		now:     time.Now,
	}
}

func (c *Controller) Session() *Session {
	return c.session
}

func (c *Controller) NextStep() {
	c.session.Step = clampStep(c.session.Step + 1)
}

func (c *Controller) PrevStep() {
	c.session.Step = clampStep(c.session.Step - 1)
}

func (c *Controller) SetGoalTitle(title string) {
	c.session.GoalTitle = title
}

func (c *Controller) SetAnswer(i int, answer string) {
	if i >= 0 && i < len(c.session.Answers) {
		c.session.Answers[i] = answer
	}
}

func (c *Controller) SetSmart(smart model.SMART) {
	c.session.Smart = smart
}

// UpdateAction edits the i-th plan item in place.
func (c *Controller) UpdateAction(i int, edit func(*PlanItem)) {
	if i >= 0 && i < len(c.session.Actions) {
		edit(&c.session.Actions[i])
	}
}

// RequestQuestions is a no-op until the user has typed a goal.
func (c *Controller) RequestQuestions(ctx context.Context) error {
	title := strings.TrimSpace(c.session.GoalTitle)
	if title == "" {
		return nil
	}
	return c.run(ctx, "Unable to generate questions.", func() error {
		questions, err := c.gen.GenerateQuestions(ctx, title)
		if err != nil {
			return err
		}
		c.session.Questions = questions
		c.session.Answers = make([]string, len(questions))
		c.session.Step = 2
		return nil
	})
}

func (c *Controller) RequestSmart(ctx context.Context) error {
	return c.run(ctx, "Unable to generate SMART details.", func() error {
		result, err := c.gen.GenerateSmart(ctx, strings.TrimSpace(c.session.GoalTitle), c.session.Answers)
		if err != nil {
			return err
		}
		if result.GoalTitle != "" {
			c.session.GoalTitle = result.GoalTitle
		}
		c.session.Smart = result.Smart
		c.session.Step = 3
		return nil
	})
}

func (c *Controller) RequestActions(ctx context.Context) error {
	return c.run(ctx, "Unable to generate actions.", func() error {
		suggestions, err := c.gen.GenerateActions(ctx, strings.TrimSpace(c.session.GoalTitle), c.session.Smart, c.session.TargetID)
		if err != nil {
			return err
		}
		c.session.Actions = planItems(suggestions)
		c.session.Step = 4
		return nil
	})
}

// RequestMoreActions appends suggestions whose titles are not already planned.
func (c *Controller) RequestMoreActions(ctx context.Context) error {
	return c.run(ctx, "Unable to generate actions.", func() error {
		previous := make([]client.PreviousAction, len(c.session.Actions))
		for i, item := range c.session.Actions {
			previous[i] = client.PreviousAction{Title: item.Title, Description: item.Description, Frequency: item.Frequency}
		}

		suggestions, err := c.gen.GenerateMoreActions(ctx, strings.TrimSpace(c.session.GoalTitle), c.session.Smart, previous, c.session.TargetID)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(c.session.Actions))
		for _, item := range c.session.Actions {
			seen[validation.FoldTitle(item.Title)] = true
		}
		for _, item := range planItems(suggestions) {
			key := validation.FoldTitle(item.Title)
			if seen[key] {
				continue
			}
			seen[key] = true
			c.session.Actions = append(c.session.Actions, item)
		}
		return nil
	})
}

// Save validates the draft locally before anything is sent.
func (c *Controller) Save(ctx context.Context) error {
	return c.run(ctx, "Unable to save your goal.", func() error {
		req, err := c.saveRequest()
		if err != nil {
			return err
		}

		targetID, err := c.gen.SaveGoal(ctx, req)
		if err != nil {
			return err
		}
		c.session.TargetID = targetID
		c.session.Success = SavedMessage
		return nil
	})
}

func (c *Controller) saveRequest() (client.SaveGoalRequest, error) {
	if c.userID == "" {
		return client.SaveGoalRequest{}, userError("Please sign in again before saving your goal.")
	}

	req := client.SaveGoalRequest{
		UserID:    c.userID,
		GoalTitle: strings.TrimSpace(c.session.GoalTitle),
		Smart:     c.session.Smart.Trimmed(),
		Actions:   make([]client.SavedAction, len(c.session.Actions)),
		CreatedAt: c.now().UTC(),
	}
	for i, item := range c.session.Actions {
		req.Actions[i] = client.SavedAction{
			ActionID:     item.ActionID,
			Title:        strings.TrimSpace(item.Title),
			Description:  strings.TrimSpace(item.Description),
			Frequency:    item.Frequency,
			RepeatConfig: item.RepeatConfig,
			Order:        i + 1,
			UserDeadline: strings.TrimSpace(item.UserDeadline),
		}
	}

	switch {
	case req.GoalTitle == "":
		return req, userError("Goal title is required before saving.")
	case !req.Smart.Complete():
		return req, userError("Please complete your SMART details before saving.")
	case len(req.Actions) == 0:
		return req, userError("Generate actions before saving.")
	}

	for _, a := range req.Actions {
		if a.Title == "" {
			return req, userError("Please add a title for each action before saving.")
		}
	}
	for _, a := range req.Actions {
		if a.Description == "" {
			return req, userError("Please add a description for each action before saving.")
		}
	}
	for _, a := range req.Actions {
		if _, ok := validation.ParseTimestamp(a.UserDeadline); !ok {
			return req, userError("Please add a calendar date for each action.")
		}
	}
	return req, nil
}

// run clears the banners, guards against overlapping requests and records
// the outcome on the session. The step only moves when fn succeeds.
func (c *Controller) run(ctx context.Context, fallback string, fn func() error) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	c.session.Error = ""
	c.session.Success = ""

	if err := ctx.Err(); err != nil {
		c.session.Error = fallback
		return err
	}
	if err := fn(); err != nil {
		c.session.Error = messageFor(err, fallback)
		return err
	}
	return nil
}

func messageFor(err error, fallback string) string {
	var apiErr *client.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func userError(msg string) error {
	return &client.Error{Message: msg}
}

func planItems(suggestions []model.ActionSuggestion) []PlanItem {
	items := make([]PlanItem, 0, len(suggestions))
	for _, s := range suggestions {
		items = append(items, PlanItem{
			ActionID:     s.ActionID,
			Title:        s.Title,
			Description:  s.Description,
			Frequency:    s.Frequency,
			RepeatConfig: s.RepeatConfig,
		})
	}
	return items
}
