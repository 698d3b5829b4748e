package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/templui/goalwizard/internal/model"
)

const (
	FirstStep = 1
	LastStep  = 4
)

// PlanItem is an action the user is shaping before the goal is saved.
type PlanItem struct {
	ActionID     string
	Title        string
	Description  string
	Frequency    model.Frequency
	RepeatConfig *model.RepeatConfig
	UserDeadline string
}

// Session is the wizard draft. It survives restarts through EncodeSession.
type Session struct {
	Step      int
	GoalTitle string
	Questions []string
	Answers   []string
	Smart     model.SMART
	Actions   []PlanItem
	TargetID  string
	Error     string
	Success   string
}

func NewSession() *Session {
	return &Session{Step: FirstStep}
}

// ExternalSMART uses the field names the wizard screens use.
type ExternalSMART struct {
	Specific   string `json:"specific"`
	Measurable string `json:"measurable"`
	Achievable string `json:"achievable"`
	Relevant   string `json:"relevant"`
	Timebound  string `json:"timebound"`
}

func ToExternal(s model.SMART) ExternalSMART {
	return ExternalSMART{
		Specific:   s.Specific,
		Measurable: s.Measurable,
		Achievable: s.Achievable,
		Relevant:   s.Relevant,
		Timebound:  s.TimeBased,
	}
}

func FromExternal(s ExternalSMART) model.SMART {
	return model.SMART{
		Specific:   s.Specific,
		Measurable: s.Measurable,
		Achievable: s.Achievable,
		Relevant:   s.Relevant,
		TimeBased:  s.Timebound,
	}
}

type storedSession struct {
	Step      int           `json:"step"`
	GoalTitle string        `json:"goalTitle"`
	Questions []string      `json:"questions"`
	Answers   []string      `json:"answers"`
	Smart     ExternalSMART `json:"smart"`
	Actions   []storedItem  `json:"actions"`
	TargetID  string        `json:"targetId,omitempty"`
	Error     string        `json:"error,omitempty"`
	Success   string        `json:"success,omitempty"`
}

type storedItem struct {
	ActionID     string              `json:"actionId,omitempty"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Frequency    model.Frequency     `json:"frequency,omitempty"`
	RepeatConfig *model.RepeatConfig `json:"repeatConfig,omitempty"`
	UserDeadline string              `json:"userDeadline"`
}

func EncodeSession(w io.Writer, s *Session) error {
	stored := storedSession{
		Step:      s.Step,
		GoalTitle: s.GoalTitle,
		Questions: s.Questions,
		Answers:   s.Answers,
		Smart:     ToExternal(s.Smart),
		Actions:   make([]storedItem, len(s.Actions)),
		TargetID:  s.TargetID,
		Error:     s.Error,
		Success:   s.Success,
	}
	for i, item := range s.Actions {
		stored.Actions[i] = storedItem(item)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stored)
}

// DecodeSession restores a draft, repairing what a hand-edited file might break.
func DecodeSession(r io.Reader) (*Session, error) {
	var stored storedSession
	if err := json.NewDecoder(r).Decode(&stored); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	s := &Session{
		Step:      clampStep(stored.Step),
		GoalTitle: stored.GoalTitle,
		Questions: stored.Questions,
		Answers:   alignAnswers(stored.Answers, len(stored.Questions)),
		Smart:     FromExternal(stored.Smart),
		Actions:   make([]PlanItem, len(stored.Actions)),
		TargetID:  stored.TargetID,
		Error:     stored.Error,
		Success:   stored.Success,
	}
	for i, item := range stored.Actions {
		s.Actions[i] = PlanItem(item)
	}
	return s, nil
}

// LoadSession starts a fresh draft when path does not exist yet.
func LoadSession(path string) (*Session, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer f.Close()
	return DecodeSession(f)
}

// SaveSession writes through a temp file so a crash never leaves half a draft.
func SaveSession(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".session-*")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeSession(tmp, s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func clampStep(step int) int {
	return min(max(step, FirstStep), LastStep)
}

func alignAnswers(answers []string, n int) []string {
	out := make([]string, n)
	copy(out, answers)
	return out
}
