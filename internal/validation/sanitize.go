package validation

import (
	"encoding/json"
	"math"
	"slices"
	"strings"

	"github.com/templui/goalwizard/internal/model"
	"golang.org/x/text/cases"
)

// CleanText returns v trimmed when it is a string, "" otherwise.
func CleanText(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// CleanFrequency maps v onto a known cadence, defaulting to once.
func CleanFrequency(v any) model.Frequency {
	switch f := model.Frequency(strings.ToLower(CleanText(v))); f {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly, model.FrequencyOnce:
		return f
	default:
		return model.FrequencyOnce
	}
}

// CleanRepeatConfig keeps the valid weekday codes and a day of month in [1,31].
// It returns nil when nothing valid survives.
func CleanRepeatConfig(v any) *model.RepeatConfig {
	var raw map[string]any
	switch c := v.(type) {
	case map[string]any:
		raw = c
	case *model.RepeatConfig:
		if c == nil {
			return nil
		}
		days := make([]any, len(c.OnDays))
		for i, d := range c.OnDays {
			days[i] = d
		}
		raw = map[string]any{"onDays": days, "dayOfMonth": c.DayOfMonth}
	default:
		return nil
	}

	cfg := &model.RepeatConfig{}
	if days, ok := raw["onDays"].([]any); ok {
		for _, d := range days {
			code := strings.ToLower(CleanText(d))
			if slices.Contains(model.WeekdayCodes, code) {
				cfg.OnDays = append(cfg.OnDays, code)
			}
		}
	}
	if n, ok := number(raw["dayOfMonth"]); ok && n >= 1 && n <= 31 {
		cfg.DayOfMonth = int(math.Floor(n))
	}

	if len(cfg.OnDays) == 0 && cfg.DayOfMonth == 0 {
		return nil
	}
	return cfg
}

// CleanAnswers keeps the first three non-blank answers.
func CleanAnswers(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if strs, ok := v.([]string); ok {
			for _, s := range strs {
				items = append(items, s)
			}
		}
	}

	answers := []string{}
	for _, item := range items {
		if a := CleanText(item); a != "" {
			answers = append(answers, a)
		}
		if len(answers) == 3 {
			break
		}
	}
	return answers
}

// CleanSMART trims all five fields and reports whether each is non-empty.
func CleanSMART(v any) (model.SMART, bool) {
	var smart model.SMART
	switch s := v.(type) {
	case map[string]any:
		smart = model.SMART{
			Specific:   CleanText(s["specific"]),
			Measurable: CleanText(s["measurable"]),
			Achievable: CleanText(s["achievable"]),
			Relevant:   CleanText(s["relevant"]),
			TimeBased:  CleanText(s["timeBased"]),
		}
	case model.SMART:
		smart = s.Trimmed()
	case *model.SMART:
		if s == nil {
			return model.SMART{}, false
		}
		smart = s.Trimmed()
	default:
		return model.SMART{}, false
	}
	return smart, smart.Complete()
}

// FoldTitle normalises a title for case-insensitive duplicate checks.
func FoldTitle(title string) string {
	return cases.Fold().String(strings.TrimSpace(title))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
