package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/templui/goalwizard/internal/model"
)

const fallbackMessage = "Request failed."

// Error carries a message meant for the person driving the wizard.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to the goal API on behalf of one signed-in user.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

type SmartResult struct {
	GoalTitle string
	Smart     model.SMART
}

type PreviousAction struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Frequency   model.Frequency `json:"frequency,omitempty"`
}

type SaveGoalRequest struct {
	UserID    string        `json:"userId"`
	GoalTitle string        `json:"goalTitle"`
	Smart     model.SMART   `json:"smart"`
	Actions   []SavedAction `json:"actions"`
	CreatedAt time.Time     `json:"createdAt"`
}

type SavedAction struct {
	ActionID     string              `json:"actionId,omitempty"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Frequency    model.Frequency     `json:"frequency"`
	RepeatConfig *model.RepeatConfig `json:"repeatConfig,omitempty"`
	Order        int                 `json:"order,omitempty"`
	UserDeadline string              `json:"userDeadline"`
}

func (c *Client) GenerateQuestions(ctx context.Context, userInput string) ([]string, error) {
	var resp struct {
		Questions []string `json:"questions"`
	}
	if err := c.post(ctx, "/api/generate-questions", map[string]any{"userInput": userInput}, &resp); err != nil {
		return nil, err
	}

	questions := make([]string, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, &Error{Message: "No questions were returned."}
	}
	return questions, nil
}

func (c *Client) GenerateSmart(ctx context.Context, userInput string, answers []string) (*SmartResult, error) {
	var resp struct {
		GoalTitle string `json:"goalTitle"`
		Smart     struct {
			model.SMART
			// Older deployments answer in the UI vocabulary.
			Timebound string `json:"timebound"`
		} `json:"smart"`
	}
	body := map[string]any{"userInput": userInput, "answers": answers}
	if err := c.post(ctx, "/api/generate-smart", body, &resp); err != nil {
		return nil, err
	}

	smart := resp.Smart.SMART
	if smart.TimeBased == "" {
		smart.TimeBased = resp.Smart.Timebound
	}
	if resp.GoalTitle == "" || !smart.Complete() {
		return nil, &Error{Message: "SMART data is incomplete."}
	}
	return &SmartResult{GoalTitle: resp.GoalTitle, Smart: smart}, nil
}

func (c *Client) GenerateActions(ctx context.Context, goalTitle string, smart model.SMART, targetID string) ([]model.ActionSuggestion, error) {
	body := map[string]any{"goalTitle": goalTitle, "smart": smart, "targetId": targetID}
	return c.actions(ctx, "/api/generate-actions", body)
}

func (c *Client) GenerateMoreActions(ctx context.Context, goalTitle string, smart model.SMART, previous []PreviousAction, targetID string) ([]model.ActionSuggestion, error) {
	body := map[string]any{"goalTitle": goalTitle, "smart": smart, "previousActions": previous, "targetId": targetID}
	return c.actions(ctx, "/api/generate-more-actions", body)
}

func (c *Client) actions(ctx context.Context, path string, body any) ([]model.ActionSuggestion, error) {
	var resp struct {
		Actions []model.ActionSuggestion `json:"actions"`
	}
	if err := c.post(ctx, path, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Actions) == 0 {
		return nil, &Error{Message: "No actions were returned."}
	}
	return resp.Actions, nil
}

// SaveGoal persists the plan and returns the new target id.
func (c *Client) SaveGoal(ctx context.Context, req SaveGoalRequest) (string, error) {
	var resp struct {
		Success  bool   `json:"success"`
		TargetID string `json:"targetId"`
	}
	if err := c.post(ctx, "/api/save-goal-data", req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &Error{Message: "Unable to save your goal."}
	}
	return resp.TargetID, nil
}

func (c *Client) post(ctx context.Context, path string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		message := fallbackMessage
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			message = apiErr.Error
		}
		return &Error{Status: resp.StatusCode, Message: message}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Join(&Error{Status: resp.StatusCode, Message: fallbackMessage}, err)
	}
	return nil
}
