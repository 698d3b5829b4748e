package llm

import (
	"fmt"
	"strings"

	"github.com/templui/goalwizard/internal/model"
)

const (
	TemperatureDefault = 0.7
	TemperatureMore    = 0.8
)

const questionsPrompt = `You generate *three short clarifying questions* to help a user define a goal or problem.
Return ONLY a JSON object:

{
  "questions": [string, string, string]
}

Rules:
- Ask exactly 3 short conversational questions.
- No advice, no solutions, no steps.
- No bullet points or numbering.
- All output must be valid JSON only.`

const smartPrompt = `You generate a simple SMART breakdown based on the user's goal.
Return ONLY a JSON object:

{
  "goalTitle": string,
  "smart": {
    "specific": string,
    "measurable": string,
    "achievable": string,
    "relevant": string,
    "timeBased": string
  }
}

Rules:
- goalTitle must be 6-12 words.
- Each SMART field must be 1-2 friendly sentences.
- No solutions or action steps.
- No extra fields.
- JSON must be valid.`

const actionShape = `{
  "actions": [
    {
      "actionId": string,
      "targetId": string,
      "title": string,
      "description": string,
      "frequency": "daily" | "weekly" | "monthly" | "once",
      "repeatConfig": {
        "onDays": ["mon", "tue", "wed", "thu", "fri", "sat", "sun"],
        "dayOfMonth": number
      },%s
      "completedDates": [timestamp, ...],
      "isArchived": boolean,
      "createdAt": timestamp
    }
  ]
}`

const actionRules = `- Titles should be short and action-oriented, without repeating SMART text.
- Description in 3-4 sentences that is easy to understand.
- frequency must be one of: daily, weekly, monthly, or once.
- repeatConfig is only needed when frequency is weekly or monthly (for daily or once, keep it empty or null).
- completedDates should be an array of timestamps (can be empty).
- createdAt should be a timestamp for when the suggestion was created.
- Do not add any extra fields or commentary.
Ensure JSON is valid.`

var actionsPrompt = `You are a friendly coach who creates practical, beginner-friendly actions based on a SMART goal.
Return ONLY a JSON object with this exact shape:
` + fmt.Sprintf(actionShape, "\n      \"order\": number,") + `
Rules:
- Generate between 6 and 10 actions.
- Each action must be clear, concise, and directly tied to the SMART goal.
- Include a mix of quick wins, medium steps, and slightly longer tasks.
- Avoid overlapping or redundant tasks.
` + actionRules

var moreActionsPrompt = `You are a friendly coach who proposes fresh, practical actions for a SMART goal.
Return ONLY a JSON object with this exact shape:
` + fmt.Sprintf(actionShape, "") + `
Rules:
- Generate 4 to 8 new actions that are meaningfully different from any provided previous actions.
- Avoid overlapping, rephrasing, or merging previous ideas. Introduce new angles (resources, accountability, routines, checkpoints).
- Each action must be clear, concise, and tied to the SMART goal.
` + actionRules

func QuestionsRequest(userInput string) Request {
	return Request{
		System:      questionsPrompt,
		User:        fmt.Sprintf("User wants help with: %q. Generate exactly 3 clarifying questions.", userInput),
		Temperature: TemperatureDefault,
	}
}

func SmartRequest(userInput string, answers []string) Request {
	joined := "None"
	if len(answers) > 0 {
		joined = strings.Join(answers, " | ")
	}
	return Request{
		System: smartPrompt,
		User: fmt.Sprintf("User goal: %q\nClarifying answers: %s\nGenerate the SMART breakdown only.",
			userInput, joined),
		Temperature: TemperatureDefault,
	}
}

func ActionsRequest(goalTitle string, smart model.SMART) Request {
	return Request{
		System:      actionsPrompt,
		User:        goalContext(goalTitle, smart) + "Generate 6-10 action ideas as instructed.",
		Temperature: TemperatureDefault,
	}
}

// PreviousAction is an earlier suggestion the model must not repeat.
type PreviousAction struct {
	Title       string
	Description string
}

func MoreActionsRequest(goalTitle string, smart model.SMART, previous []PreviousAction) Request {
	var b strings.Builder
	b.WriteString(goalContext(goalTitle, smart))
	b.WriteString("Previously suggested actions:\n")
	if len(previous) == 0 {
		b.WriteString("None provided\n")
	}
	for i, p := range previous {
		fmt.Fprintf(&b, "%d. %s", i+1, p.Title)
		if p.Description != "" {
			fmt.Fprintf(&b, " - %s", p.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("Generate 4-8 new action ideas that are clearly different from all previous actions.")

	return Request{
		System:      moreActionsPrompt,
		User:        b.String(),
		Temperature: TemperatureMore,
	}
}

func goalContext(goalTitle string, smart model.SMART) string {
	return fmt.Sprintf(`Goal title: %q
SMART details:
- Specific: %s
- Measurable: %s
- Achievable: %s
- Relevant: %s
- Time-based: %s
`, goalTitle, smart.Specific, smart.Measurable, smart.Achievable, smart.Relevant, smart.TimeBased)
}
