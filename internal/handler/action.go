package handler

import (
	"net/http"

	"github.com/templui/goalwizard/internal/ctxkeys"
	"github.com/templui/goalwizard/internal/service"
)

type ActionHandler struct {
	actionService    *service.ActionService
	dashboardService *service.DashboardService
}

func NewActionHandler(actionService *service.ActionService, dashboardService *service.DashboardService) *ActionHandler {
	return &ActionHandler{
		actionService:    actionService,
		dashboardService: dashboardService,
	}
}

func (h *ActionHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := ctxkeys.UserID(r.Context())

	var req struct {
		TargetID string `json:"targetId"`
	}
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	actions, err := h.actionService.List(r.Context(), uid, req.TargetID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load actions.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"actions": actions})
}

func (h *ActionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	uid := ctxkeys.UserID(r.Context())

	var req struct {
		ActionID string `json:"actionId"`
		Status   string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.actionService.UpdateStatus(r.Context(), uid, req.ActionID, req.Status); err != nil {
		writeServiceError(w, r, err, "Failed to update action.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *ActionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := ctxkeys.UserID(r.Context())

	var req struct {
		ActionID string `json:"actionId"`
		Mode     string `json:"mode"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	mode := service.ParseDeleteMode(req.Mode)

	if err := h.actionService.Delete(r.Context(), uid, req.ActionID, mode); err != nil {
		writeServiceError(w, r, err, "Failed to delete action.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"mode":    mode,
	})
}

func (h *ActionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	uid := ctxkeys.UserID(r.Context())

	var req struct {
		ActionID string `json:"actionId"`
		UserID   string `json:"userId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	message, err := h.actionService.Complete(r.Context(), uid, req.ActionID, req.UserID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to check in action.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
	})
}

func (h *ActionHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	uid := ctxkeys.UserID(r.Context())

	actions, err := h.dashboardService.Actions(r.Context(), uid, r.URL.Query().Get("userId"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load dashboard.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"actions": actions})
}
