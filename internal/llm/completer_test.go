package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/templui/goalwizard/internal/model"
)

func TestOpenAI_Complete(t *testing.T) {
	var got struct {
		Model          string  `json:"model"`
		Temperature    float32 `json:"temperature"`
		ResponseFormat struct {
			Type string `json:"type"`
		} `json:"response_format"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"questions\":[]}"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	completer := NewOpenAI("test-key", server.URL, "gpt-4o")
	text, err := completer.Complete(context.Background(), QuestionsRequest("run a 5k"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != `{"questions":[]}` {
		t.Errorf("unexpected completion %q", text)
	}
	if got.Model != "gpt-4o" || got.Temperature != 0.7 {
		t.Errorf("unexpected model/temperature %q %v", got.Model, got.Temperature)
	}
	if got.ResponseFormat.Type != "json_object" {
		t.Errorf("expected json_object response format, got %q", got.ResponseFormat.Type)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestOpenAI_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	_, err := NewOpenAI("k", server.URL, "gpt-4o").Complete(context.Background(), QuestionsRequest("x"))
	if err != ErrEmptyCompletion {
		t.Errorf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestMoreActionsRequest_ListsPrevious(t *testing.T) {
	req := MoreActionsRequest("Run", smartFixture(), []PreviousAction{{Title: "Jog", Description: "Easy pace"}})
	if req.Temperature != TemperatureMore {
		t.Errorf("expected temperature %v, got %v", TemperatureMore, req.Temperature)
	}
	want := "1. Jog - Easy pace\n"
	if !contains(req.User, want) {
		t.Errorf("expected user prompt to contain %q, got %q", want, req.User)
	}
}

func smartFixture() model.SMART {
	return model.SMART{Specific: "s", Measurable: "m", Achievable: "a", Relevant: "r", TimeBased: "t"}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
