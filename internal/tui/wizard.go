package tui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/templui/goalwizard/internal/model"
	"github.com/templui/goalwizard/internal/wizard"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

var stepTitles = map[int]string{
	1: "Your goal",
	2: "Clarifying questions",
	3: "SMART breakdown",
	4: "Action plan",
}

// requestDoneMsg reports the end of a controller request started by submit.
type requestDoneMsg struct{ err error }

// WizardModel is the bubbletea front end for wizard.Controller. Each step is a
// column of text inputs; the draft is written to sessionPath after every step.
type WizardModel struct {
	ctx         context.Context
	ctrl        *wizard.Controller
	sessionPath string

	step    int
	labels  []string
	details []string
	inputs  []textinput.Model
	focus   int

	busy        bool
	working     string
	done        bool
	interrupted bool
	err         error
}

func NewWizardModel(ctx context.Context, ctrl *wizard.Controller, sessionPath string) WizardModel {
	m := WizardModel{ctx: ctx, ctrl: ctrl, sessionPath: sessionPath}
	m.loadStep()
	return m
}

// Done reports whether the goal was saved.
func (m WizardModel) Done() bool { return m.done }

// Interrupted reports whether the user quit while a request was in flight,
// in which case the draft on disk is the one from the previous step.
func (m WizardModel) Interrupted() bool { return m.interrupted }

func (m WizardModel) Err() error { return m.err }

func (m WizardModel) Init() tea.Cmd { return textinput.Blink }

func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case requestDoneMsg:
		return m.finishRequest(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.busy {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyTab, tea.KeyDown:
			return m.moveFocus(1), nil
		case tea.KeyShiftTab, tea.KeyUp:
			return m.moveFocus(-1), nil
		case tea.KeyEsc:
			return m.back()
		case tea.KeyEnter:
			if m.focus < len(m.inputs)-1 {
				return m.moveFocus(1), nil
			}
			request, label := m.stepRequest()
			return m.submit(request, label)
		case tea.KeyCtrlN:
			if m.step == wizard.LastStep {
				return m.submit(m.ctrl.RequestMoreActions, "Looking for more ideas...")
			}
			return m, nil
		case tea.KeyCtrlS:
			if m.step == wizard.LastStep {
				return m.submit(m.ctrl.Save, "Saving your plan...")
			}
			return m, nil
		}
	}

	if m.busy || len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m WizardModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Goal wizard - step %d of %d - %s", m.step, wizard.LastStep, stepTitles[m.step])))
	b.WriteString("\n\n")

	if m.done {
		b.WriteString(successStyle.Render(m.ctrl.Session().Success))
		b.WriteString("\n")
		return b.String()
	}
	// The controller owns the session while a request runs.
	if m.busy {
		b.WriteString(dimStyle.Render(m.working))
		b.WriteString("\n")
		return b.String()
	}

	s := m.ctrl.Session()
	if m.step >= 3 && s.GoalTitle != "" {
		b.WriteString(labelStyle.Render("Goal: " + s.GoalTitle))
		b.WriteString("\n\n")
	}
	if m.step == wizard.LastStep && len(m.inputs) == 0 {
		b.WriteString(dimStyle.Render("No actions yet. Press ctrl+n for ideas."))
		b.WriteString("\n")
	}

	for i, input := range m.inputs {
		label := labelStyle.Render(m.labels[i])
		if i == m.focus {
			label = focusedStyle.Render(m.labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		if m.details[i] != "" {
			b.WriteString(dimStyle.Render(m.details[i]))
			b.WriteString("\n")
		}
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	if s.Error != "" {
		b.WriteString(errorStyle.Render("! " + s.Error))
		b.WriteString("\n\n")
	}
	b.WriteString(dimStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m WizardModel) help() string {
	switch m.step {
	case wizard.FirstStep:
		return "enter: continue - ctrl+c: quit"
	case wizard.LastStep:
		return "tab: next date - enter/ctrl+s: save - ctrl+n: more ideas - esc: back - ctrl+c: quit"
	default:
		return "tab: next field - enter: continue - esc: back - ctrl+c: quit"
	}
}

// loadStep rebuilds the inputs from the session's current step.
func (m *WizardModel) loadStep() {
	s := m.ctrl.Session()
	m.step = s.Step
	m.labels, m.details, m.inputs, m.focus = nil, nil, nil, 0

	switch s.Step {
	case 1:
		m.addInput("What goal do you want to work on?", "", s.GoalTitle, "e.g. Run a 5k in under 30 minutes")
	case 2:
		for i, q := range s.Questions {
			answer := ""
			if i < len(s.Answers) {
				answer = s.Answers[i]
			}
			m.addInput(fmt.Sprintf("%d. %s", i+1, q), "", answer, "")
		}
	case 3:
		ext := wizard.ToExternal(s.Smart)
		for _, f := range smartFields(&ext) {
			m.addInput(f.label, "", *f.value, "")
		}
	default:
		for i, a := range s.Actions {
			label := fmt.Sprintf("%d. %s [%s]", i+1, a.Title, frequencyLabel(a.Frequency))
			m.addInput(label, a.Description, a.UserDeadline, "deadline YYYY-MM-DD")
		}
	}

	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

func (m *WizardModel) addInput(label, detail, value, placeholder string) {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 500
	ti.Width = 60
	ti.SetValue(value)
	m.labels = append(m.labels, label)
	m.details = append(m.details, detail)
	m.inputs = append(m.inputs, ti)
}

// commit copies the input values into the session.
func (m WizardModel) commit() {
	switch m.step {
	case 1:
		if len(m.inputs) > 0 {
			m.ctrl.SetGoalTitle(m.inputs[0].Value())
		}
	case 2:
		for i, input := range m.inputs {
			m.ctrl.SetAnswer(i, input.Value())
		}
	case 3:
		ext := wizard.ToExternal(m.ctrl.Session().Smart)
		fields := smartFields(&ext)
		for i, input := range m.inputs {
			if i < len(fields) {
				*fields[i].value = input.Value()
			}
		}
		m.ctrl.SetSmart(wizard.FromExternal(ext))
	default:
		for i, input := range m.inputs {
			date := strings.TrimSpace(input.Value())
			m.ctrl.UpdateAction(i, func(item *wizard.PlanItem) { item.UserDeadline = date })
		}
	}
}

func (m WizardModel) moveFocus(delta int) WizardModel {
	if len(m.inputs) == 0 {
		return m
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func (m WizardModel) stepRequest() (func(context.Context) error, string) {
	switch m.step {
	case 1:
		return m.ctrl.RequestQuestions, "Thinking of a few questions..."
	case 2:
		return m.ctrl.RequestSmart, "Building a SMART breakdown..."
	case 3:
		return m.ctrl.RequestActions, "Drafting actions..."
	default:
		return m.ctrl.Save, "Saving your plan..."
	}
}

func (m WizardModel) submit(request func(context.Context) error, working string) (tea.Model, tea.Cmd) {
	m.commit()
	m.busy = true
	m.working = working
	ctx := m.ctx
	return m, func() tea.Msg {
		return requestDoneMsg{err: request(ctx)}
	}
}

func (m WizardModel) finishRequest(msg requestDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.working = ""

	s := m.ctrl.Session()
	if s.Success != "" {
		m.done = true
		if err := os.Remove(m.sessionPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.err = err
		}
		return m, tea.Quit
	}

	if err := wizard.SaveSession(m.sessionPath, s); err != nil {
		m.err = err
		return m, tea.Quit
	}
	if errors.Is(msg.err, context.Canceled) {
		m.err = msg.err
		return m, tea.Quit
	}

	m.loadStep()
	return m, textinput.Blink
}

func (m WizardModel) back() (tea.Model, tea.Cmd) {
	m.commit()
	m.ctrl.PrevStep()
	if err := wizard.SaveSession(m.sessionPath, m.ctrl.Session()); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.loadStep()
	return m, textinput.Blink
}

func (m WizardModel) quit() (tea.Model, tea.Cmd) {
	if m.busy {
		m.interrupted = true
		return m, tea.Quit
	}
	m.commit()
	if err := wizard.SaveSession(m.sessionPath, m.ctrl.Session()); err != nil {
		m.err = err
	}
	return m, tea.Quit
}

type smartField struct {
	label string
	value *string
}

func smartFields(ext *wizard.ExternalSMART) []smartField {
	return []smartField{
		{"Specific", &ext.Specific},
		{"Measurable", &ext.Measurable},
		{"Achievable", &ext.Achievable},
		{"Relevant", &ext.Relevant},
		{"Time-bound", &ext.Timebound},
	}
}

func frequencyLabel(f model.Frequency) string {
	if f == "" {
		return string(model.FrequencyOnce)
	}
	return string(f)
}
