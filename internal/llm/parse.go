package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnparseable wraps every failure of a FirstOf run.
var ErrUnparseable = errors.New("completion could not be parsed")

// Strategy turns raw completion text into T, or fails.
type Strategy[T any] struct {
	Name  string
	Parse func(raw string) (T, error)
}

// FirstOf runs the strategies in order and returns the first success.
func FirstOf[T any](raw string, strategies ...Strategy[T]) (T, error) {
	var errs []error
	for _, s := range strategies {
		v, err := s.Parse(raw)
		if err == nil {
			return v, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
	}

	var zero T
	return zero, fmt.Errorf("%w: %w", ErrUnparseable, errors.Join(errs...))
}

// DirectJSON decodes the whole text as one JSON object.
func DirectJSON[T any](shape func(map[string]any) (T, error)) Strategy[T] {
	return Strategy[T]{
		Name: "direct",
		Parse: func(raw string) (T, error) {
			obj, err := decodeObject(raw)
			if err != nil {
				var zero T
				return zero, err
			}
			return shape(obj)
		},
	}
}

// greedy: first "{" through last "}"
var embeddedObject = regexp.MustCompile(`(?s)\{.*\}`)

// EmbeddedJSON decodes the outermost {...} span found inside surrounding prose.
func EmbeddedJSON[T any](shape func(map[string]any) (T, error)) Strategy[T] {
	return Strategy[T]{
		Name: "embedded",
		Parse: func(raw string) (T, error) {
			var zero T
			match := embeddedObject.FindString(raw)
			if match == "" {
				return zero, errors.New("no object in text")
			}
			obj, err := decodeObject(match)
			if err != nil {
				return zero, err
			}
			return shape(obj)
		},
	}
}

const questionNoise = " \t\r\n\"'`,:;-*•[]{}()"

// QuestionMarks treats every "?"-terminated run of text as a question.
func QuestionMarks(shape func([]string) ([]string, error)) Strategy[[]string] {
	return Strategy[[]string]{
		Name: "question-marks",
		Parse: func(raw string) ([]string, error) {
			parts := strings.Split(raw, "?")
			// text after the final "?" is not a question
			parts = parts[:len(parts)-1]

			var questions []string
			for _, part := range parts {
				if i := strings.LastIndexAny(part, "\n\"[{"); i >= 0 {
					part = part[i+1:]
				}
				part = strings.Trim(part, questionNoise)
				part = strings.TrimLeft(part, "0123456789.) ")
				if part == "" {
					continue
				}
				questions = append(questions, part+"?")
			}
			return shape(questions)
		},
	}
}

func decodeObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("not a JSON object")
	}
	return obj, nil
}
