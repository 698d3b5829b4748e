package handler

import (
	"net/http"

	"github.com/templui/goalwizard/internal/llm"
	"github.com/templui/goalwizard/internal/model"
	"github.com/templui/goalwizard/internal/service"
	"github.com/templui/goalwizard/internal/validation"
)

type GenerateHandler struct {
	generationService *service.GenerationService
}

func NewGenerateHandler(generationService *service.GenerationService) *GenerateHandler {
	return &GenerateHandler{
		generationService: generationService,
	}
}

func (h *GenerateHandler) Questions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserInput any `json:"userInput"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	questions, err := h.generationService.Questions(r.Context(), validation.CleanText(req.UserInput))
	if err != nil {
		writeServiceError(w, r, err, "Failed to generate clarifying questions.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (h *GenerateHandler) Smart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserInput any `json:"userInput"`
		Answers   any `json:"answers"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.generationService.Smart(r.Context(), validation.CleanText(req.UserInput), validation.CleanAnswers(req.Answers))
	if err != nil {
		writeServiceError(w, r, err, "Failed to generate SMART breakdown.")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type actionsRequest struct {
	GoalTitle       string               `json:"goalTitle"`
	Smart           model.SMART          `json:"smart"`
	TargetID        string               `json:"targetId"`
	PreviousActions []previousActionJSON `json:"previousActions"`
}

type previousActionJSON struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
}

func (h *GenerateHandler) Actions(w http.ResponseWriter, r *http.Request) {
	var req actionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	actions, err := h.generationService.Actions(r.Context(), req.GoalTitle, req.Smart, req.TargetID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to generate actions.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"actions": actions})
}

func (h *GenerateHandler) MoreActions(w http.ResponseWriter, r *http.Request) {
	var req actionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	previous := make([]llm.PreviousAction, len(req.PreviousActions))
	for i, p := range req.PreviousActions {
		previous[i] = llm.PreviousAction{Title: p.Title, Description: p.Description}
	}

	actions, err := h.generationService.MoreActions(r.Context(), req.GoalTitle, req.Smart, previous, req.TargetID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to generate additional actions.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"actions": actions})
}
