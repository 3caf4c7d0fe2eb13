package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cbonnaire/tidyquest/internal/auth"
	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/push"
	"github.com/cbonnaire/tidyquest/internal/store"
	"github.com/cbonnaire/tidyquest/internal/task"
	"github.com/cbonnaire/tidyquest/internal/websocket"
)

type TaskHandler struct {
	tasks       *store.TaskStore
	completions *store.CompletionStore
	hub         *websocket.Hub
	notifier    *push.Notifier
	logger      *slog.Logger
}

func NewTaskHandler(ts *store.TaskStore, cs *store.CompletionStore, hub *websocket.Hub, notifier *push.Notifier, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: ts, completions: cs, hub: hub, notifier: notifier, logger: logger}
}

func (h *TaskHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type taskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Recurrence  string `json:"recurrence"`
	Urgency     string `json:"urgency"`
	Category    string `json:"category"`
	ParentID    *int64 `json:"parent_id"`
}

func (r *taskRequest) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name is required"
	}
	if r.Points < 0 {
		return "points must not be negative"
	}
	switch model.Recurrence(r.Recurrence) {
	case model.RecurrenceDaily, model.RecurrenceWeekly, model.RecurrenceOneOff:
	default:
		return "recurrence must be daily, weekly, or one_off"
	}
	switch model.Urgency(r.Urgency) {
	case model.UrgencyLow, model.UrgencyMedium, model.UrgencyHigh:
	default:
		return "urgency must be low, medium, or high"
	}
	return ""
}

// checkParent enforces the single-level hierarchy: a sub-task's parent
// must exist and must not itself be a sub-task.
func (h *TaskHandler) checkParent(parentID int64) (string, error) {
	parent, err := h.tasks.GetByID(parentID)
	if err != nil {
		return "", err
	}
	if parent == nil {
		return "parent task not found", nil
	}
	if parent.ParentID != nil {
		return "parent task is itself a sub-task", nil
	}
	return "", nil
}

// List returns the visible catalog: top-level tasks folded with their
// sub-tasks, annotated with availability and effective points.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	completions, err := h.completions.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list completions")
		return
	}

	views := task.VisibleTasks(tasks, completions, time.Now())
	if views == nil {
		views = []task.View{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.tasks.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.ParentID != nil {
		msg, err := h.checkParent(*req.ParentID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to check parent task")
			return
		}
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}

	t, err := h.tasks.Create(req.Name, req.Description, req.Points, model.Recurrence(req.Recurrence), model.Urgency(req.Urgency), req.Category, req.ParentID)
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	h.broadcast(websocket.NewMessage("task", "created", t.ID, nil))
	if h.notifier != nil && t.Urgency == model.UrgencyHigh {
		go h.notifier.NotifyUrgentTask(context.Background(), *t, auth.UserID(r.Context()))
	}

	writeJSON(w, http.StatusCreated, t)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			writeError(w, http.StatusBadRequest, "task cannot be its own parent")
			return
		}
		// A group task cannot be demoted to a sub-task.
		hasSubs, err := h.tasks.HasSubtasks(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to check sub-tasks")
			return
		}
		if hasSubs {
			writeError(w, http.StatusBadRequest, "task with sub-tasks cannot have a parent")
			return
		}
		msg, err := h.checkParent(*req.ParentID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to check parent task")
			return
		}
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}

	t, err := h.tasks.Update(id, req.Name, req.Description, req.Points, model.Recurrence(req.Recurrence), model.Urgency(req.Urgency), req.Category, req.ParentID)
	if err != nil {
		h.logger.Error("update task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	h.broadcast(websocket.NewMessage("task", "updated", id, nil))

	writeJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	if err := h.tasks.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	h.broadcast(websocket.NewMessage("task", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}
