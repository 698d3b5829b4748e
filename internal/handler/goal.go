package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/goalwizard/internal/ctxkeys"
	"github.com/templui/goalwizard/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) Save(w http.ResponseWriter, r *http.Request) {
	uid := ctxkeys.UserID(r.Context())

	var req service.SaveGoalInput
	if !decodeJSON(w, r, &req) {
		return
	}

	targetID, err := h.goalService.Save(r.Context(), uid, req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to save goal.")
		return
	}

	slog.Info("goal saved", "user_id", uid, "target_id", targetID, "actions", len(req.Actions))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"targetId": targetID,
	})
}

func (h *GoalHandler) Targets(w http.ResponseWriter, r *http.Request) {
	uid := ctxkeys.UserID(r.Context())

	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("includeArchived"))

	targets, err := h.goalService.Targets(r.Context(), uid, includeArchived)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load targets.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"targets": targets})
}

func (h *GoalHandler) Archive(w http.ResponseWriter, r *http.Request) {
	uid := ctxkeys.UserID(r.Context())
	targetID := r.PathValue("id")

	// Archive unless the body explicitly says otherwise.
	var req struct {
		Archived *bool `json:"archived"`
	}
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	archived := req.Archived == nil || *req.Archived

	updated, err := h.goalService.SetArchived(r.Context(), uid, targetID, archived)
	if err != nil {
		writeServiceError(w, r, err, "Failed to archive target.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"targetId":       targetID,
		"archived":       archived,
		"actionsUpdated": updated,
	})
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := ctxkeys.UserID(r.Context())
	targetID := r.PathValue("id")

	var req struct {
		Mode string `json:"mode"`
	}
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	if q := r.URL.Query().Get("mode"); q != "" {
		req.Mode = q
	}
	mode := service.ParseDeleteMode(req.Mode)

	deleted, err := h.goalService.Delete(r.Context(), uid, targetID, mode)
	if err != nil {
		writeServiceError(w, r, err, "Failed to delete target.")
		return
	}

	slog.Info("target deleted", "user_id", uid, "target_id", targetID, "mode", mode)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"targetId":       targetID,
		"mode":           mode,
		"deletedActions": deleted,
	})
}
