package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cbonnaire/tidyquest/internal/auth"
	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/store"
	"github.com/cbonnaire/tidyquest/internal/task"
	"github.com/cbonnaire/tidyquest/internal/websocket"
)

type CompletionHandler struct {
	tasks       *store.TaskStore
	completions *store.CompletionStore
	users       *store.UserStore
	congrats    *store.CongratsStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewCompletionHandler(ts *store.TaskStore, cs *store.CompletionStore, us *store.UserStore, gs *store.CongratsStore, hub *websocket.Hub, logger *slog.Logger) *CompletionHandler {
	return &CompletionHandler{tasks: ts, completions: cs, users: us, congrats: gs, hub: hub, logger: logger}
}

func (h *CompletionHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// checkCompletable verifies a task is a completable leaf that is
// available right now. Returns a client-facing message and status, or
// status 0 when the task passes.
func (h *CompletionHandler) checkCompletable(t *model.Task, completions []model.Completion, now time.Time) (int, string) {
	hasSubs, err := h.tasks.HasSubtasks(t.ID)
	if err != nil {
		return http.StatusInternalServerError, "failed to check sub-tasks"
	}
	if hasSubs {
		return http.StatusConflict, "group tasks are completed through their sub-tasks"
	}
	if !task.Available(*t, completions, now) {
		return http.StatusConflict, "task is not available"
	}
	return 0, ""
}

// Complete records one task completion for the authenticated user.
func (h *CompletionHandler) Complete(w http.ResponseWriter, r *http.Request) {
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

	user, err := h.users.GetByID(auth.UserID(r.Context()))
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve user")
		return
	}

	all, err := h.completions.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list completions")
		return
	}
	if status, msg := h.checkCompletable(t, all, time.Now()); status != 0 {
		writeError(w, status, msg)
		return
	}

	completion, err := h.completions.Record(*t, *user)
	if err != nil {
		h.logger.Error("record completion", "task_id", t.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record completion")
		return
	}

	h.broadcast(websocket.NewMessage("completion", "created", completion.ID, map[string]any{
		"user_id": user.ID,
		"task_id": t.ID,
		"points":  completion.Points,
	}))

	resp := map[string]any{"completion": completion}
	if h.congrats != nil {
		if msg, err := h.congrats.Random(); err == nil && msg != nil {
			resp["congratulation"] = msg.Body
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

// CompleteBatch records several tasks at once, all-or-nothing. Used by
// clients to complete every sub-task of a group in one shot.
func (h *CompletionHandler) CompleteBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskIDs []int64 `json:"task_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.TaskIDs) == 0 {
		writeError(w, http.StatusBadRequest, "task_ids is required")
		return
	}

	user, err := h.users.GetByID(auth.UserID(r.Context()))
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve user")
		return
	}

	all, err := h.completions.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list completions")
		return
	}

	now := time.Now()
	seen := make(map[int64]bool)
	tasks := make([]model.Task, 0, len(req.TaskIDs))
	for _, id := range req.TaskIDs {
		if seen[id] {
			writeError(w, http.StatusBadRequest, "duplicate task in batch")
			return
		}
		seen[id] = true

		t, err := h.tasks.GetByID(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to get task")
			return
		}
		if t == nil {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		if status, msg := h.checkCompletable(t, all, now); status != 0 {
			writeError(w, status, msg)
			return
		}
		tasks = append(tasks, *t)
	}

	completions, err := h.completions.RecordBatch(tasks, *user)
	if err != nil {
		h.logger.Error("record batch", "count", len(tasks), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record completions")
		return
	}

	for _, c := range completions {
		h.broadcast(websocket.NewMessage("completion", "created", c.ID, map[string]any{
			"user_id": user.ID,
			"task_id": c.TaskID,
			"points":  c.Points,
		}))
	}

	writeJSON(w, http.StatusCreated, completions)
}

func (h *CompletionHandler) List(w http.ResponseWriter, r *http.Request) {
	completions, err := h.completions.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list completions")
		return
	}
	if completions == nil {
		completions = []model.Completion{}
	}
	writeJSON(w, http.StatusOK, completions)
}

// Clear wipes the ledger and zeroes every counter. Admin data reset.
func (h *CompletionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.completions.Clear(); err != nil {
		h.logger.Error("clear completions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear completions")
		return
	}

	h.broadcast(websocket.NewMessage("completion", "cleared", 0, nil))

	w.WriteHeader(http.StatusNoContent)
}
