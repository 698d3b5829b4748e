package validation

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/templui/goalwizard/internal/model"
)

func TestCleanFrequency(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  model.Frequency
	}{
		{name: "title case", input: "Daily", want: model.FrequencyDaily},
		{name: "upper case", input: "WEEKLY", want: model.FrequencyWeekly},
		{name: "padded", input: "  monthly ", want: model.FrequencyMonthly},
		{name: "unknown", input: "bogus", want: model.FrequencyOnce},
		{name: "missing", input: nil, want: model.FrequencyOnce},
		{name: "not a string", input: 3.0, want: model.FrequencyOnce},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := CleanFrequency(test.input); got != test.want {
				t.Errorf("CleanFrequency(%v) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestCleanRepeatConfig(t *testing.T) {
	tests := []struct {
		name string
		json string
		want *model.RepeatConfig
	}{
		{
			name: "filters invalid day codes",
			json: `{"onDays":["mon","xyz","FRI"]}`,
			want: &model.RepeatConfig{OnDays: []string{"mon", "fri"}},
		},
		{
			name: "day of month out of range",
			json: `{"dayOfMonth":45}`,
			want: nil,
		},
		{
			name: "day of month floored",
			json: `{"dayOfMonth":14.7}`,
			want: &model.RepeatConfig{DayOfMonth: 14},
		},
		{
			name: "zero day of month",
			json: `{"dayOfMonth":0,"onDays":[]}`,
			want: nil,
		},
		{
			name: "both fields",
			json: `{"onDays":["sun"],"dayOfMonth":1}`,
			want: &model.RepeatConfig{OnDays: []string{"sun"}, DayOfMonth: 1},
		},
		{
			name: "not an object",
			json: `"weekly"`,
			want: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var input any
			if err := json.Unmarshal([]byte(test.json), &input); err != nil {
				t.Fatalf("decoding input: %v", err)
			}

			got := CleanRepeatConfig(input)
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("CleanRepeatConfig(%s) = %+v, want %+v", test.json, got, test.want)
			}
		})
	}
}

func TestCleanAnswers(t *testing.T) {
	input := []any{" first ", "", 42, "second", "third", "fourth"}

	got := CleanAnswers(input)
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCleanSMART(t *testing.T) {
	complete := map[string]any{
		"specific":   " Run 5k ",
		"measurable": "Time it",
		"achievable": "Three runs a week",
		"relevant":   "Health",
		"timeBased":  "By June",
	}

	smart, ok := CleanSMART(complete)
	if !ok {
		t.Fatal("expected complete SMART to be accepted")
	}
	if smart.Specific != "Run 5k" {
		t.Errorf("expected trimmed specific, got %q", smart.Specific)
	}

	complete["relevant"] = "   "
	if _, ok := CleanSMART(complete); ok {
		t.Error("expected blank field to be rejected")
	}

	if _, ok := CleanSMART(nil); ok {
		t.Error("expected nil SMART to be rejected")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  time.Time
		ok    bool
	}{
		{name: "date only", input: "2026-10-30", want: time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "rfc3339", input: "2026-10-30T08:15:00+02:00", want: time.Date(2026, 10, 30, 6, 15, 0, 0, time.UTC), ok: true},
		{name: "iso millis", input: "2026-10-30T08:15:00.000Z", want: time.Date(2026, 10, 30, 8, 15, 0, 0, time.UTC), ok: true},
		{name: "unix millis", input: float64(1_700_000_000_000), want: time.UnixMilli(1_700_000_000_000).UTC(), ok: true},
		{name: "largest millis", input: 8.64e15, want: time.UnixMilli(8_640_000_000_000_000).UTC(), ok: true},
		{name: "millis beyond date range", input: 8.64e15 + 1, ok: false},
		{name: "negative millis beyond date range", input: -1e19, ok: false},
		{name: "infinite", input: math.Inf(1), ok: false},
		{name: "garbage", input: "next tuesday", ok: false},
		{name: "invalid date", input: "2026-02-31", ok: false},
		{name: "missing", input: nil, ok: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := ParseTimestamp(test.input)
			if ok != test.ok {
				t.Fatalf("ParseTimestamp(%v) ok = %v, want %v", test.input, ok, test.ok)
			}
			if ok && !got.Equal(test.want) {
				t.Errorf("ParseTimestamp(%v) = %v, want %v", test.input, got, test.want)
			}
		})
	}
}

func TestFoldTitle(t *testing.T) {
	if FoldTitle("  Run Every MORNING ") != FoldTitle("run every morning") {
		t.Error("expected titles differing only in case to fold equal")
	}
	if FoldTitle("Ünïcode Step") != FoldTitle("üNÏCODE STEP") {
		t.Error("expected non-ASCII letters to fold")
	}
}
