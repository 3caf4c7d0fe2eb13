package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/store"
	"github.com/cbonnaire/tidyquest/internal/websocket"
)

type ObjectiveHandler struct {
	objectives *store.ObjectiveStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewObjectiveHandler(os *store.ObjectiveStore, hub *websocket.Hub, logger *slog.Logger) *ObjectiveHandler {
	return &ObjectiveHandler{objectives: os, hub: hub, logger: logger}
}

type objectiveRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	TargetPoints   int    `json:"target_points"`
	TargetType     string `json:"target_type"`
	TargetCategory string `json:"target_category"`
}

func (r *objectiveRequest) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name is required"
	}
	if r.TargetPoints <= 0 {
		return "target_points must be positive"
	}
	switch model.ObjectiveType(r.TargetType) {
	case model.ObjectiveCumulative:
	case model.ObjectiveCategory:
		if strings.TrimSpace(r.TargetCategory) == "" {
			return "target_category is required for category objectives"
		}
	default:
		return "target_type must be cumulative or category"
	}
	return ""
}

// List returns all objectives with progress derived from the ledger.
func (h *ObjectiveHandler) List(w http.ResponseWriter, r *http.Request) {
	objectives, err := h.objectives.ListWithProgress()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list objectives")
		return
	}
	if objectives == nil {
		objectives = []model.ObjectiveProgress{}
	}
	writeJSON(w, http.StatusOK, objectives)
}

func (h *ObjectiveHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req objectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	objective, err := h.objectives.Create(req.Name, req.Description, req.TargetPoints, model.ObjectiveType(req.TargetType), req.TargetCategory)
	if err != nil {
		h.logger.Error("create objective", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create objective")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("objective", "created", objective.ID, nil))
	}

	writeJSON(w, http.StatusCreated, objective)
}

func (h *ObjectiveHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.objectives.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get objective")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "objective not found")
		return
	}

	var req objectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	objective, err := h.objectives.Update(id, req.Name, req.Description, req.TargetPoints, model.ObjectiveType(req.TargetType), req.TargetCategory)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update objective")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("objective", "updated", id, nil))
	}

	writeJSON(w, http.StatusOK, objective)
}

func (h *ObjectiveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.objectives.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get objective")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "objective not found")
		return
	}

	if err := h.objectives.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete objective")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("objective", "deleted", id, nil))
	}

	w.WriteHeader(http.StatusNoContent)
}
