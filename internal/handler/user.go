package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cbonnaire/tidyquest/internal/auth"
	"github.com/cbonnaire/tidyquest/internal/badge"
	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/scoring"
	"github.com/cbonnaire/tidyquest/internal/store"
	"github.com/cbonnaire/tidyquest/internal/websocket"
)

type UserHandler struct {
	users       *store.UserStore
	rankings    *store.RankingStore
	completions *store.CompletionStore
	podiums     *store.PodiumStore
	tasks       *store.TaskStore
	reports     *store.ReportStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewUserHandler(us *store.UserStore, rs *store.RankingStore, cs *store.CompletionStore, ps *store.PodiumStore, ts *store.TaskStore, reps *store.ReportStore, hub *websocket.Hub, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: us, rankings: rs, completions: cs, podiums: ps, tasks: ts, reports: reps, hub: hub, logger: logger}
}

// Stats returns a participant's profile counters with the level derived
// from XP.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	stats := model.UserStats{
		UserID: user.ID,
		Name:   user.Name,
		Level:  scoring.LevelForXP(0),
	}

	entry, err := h.rankings.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get ranking")
		return
	}
	if entry != nil {
		stats.XP = entry.XP
		stats.Level = scoring.LevelForXP(entry.XP)
		stats.WeeklyPoints = entry.WeeklyPoints
		stats.TotalPoints = entry.TotalPoints
		stats.PreviousPoints = entry.PreviousPoints
	}

	count, err := h.completions.CountByUser(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count completions")
		return
	}
	stats.CompletionCount = count

	writeJSON(w, http.StatusOK, stats)
}

// Badges computes a participant's unlocked badges on demand from the
// current ledger, podium history, and reports.
func (h *UserHandler) Badges(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	var totalPoints int
	entry, err := h.rankings.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get ranking")
		return
	}
	if entry != nil {
		totalPoints = entry.TotalPoints
	}

	completions, err := h.completions.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list completions")
		return
	}
	podiums, err := h.podiums.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list podiums")
		return
	}
	tasks, err := h.tasks.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	reports, err := h.reports.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	agg := badge.BuildAggregate(id, user.Name, totalPoints, completions, podiums, tasks, reports, time.Now())
	badges := badge.Compute(agg)
	if badges == nil {
		badges = []model.Badge{}
	}
	writeJSON(w, http.StatusOK, badges)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Role != model.RoleMember && req.Role != model.RoleAdmin {
		writeError(w, http.StatusBadRequest, "role must be member or admin")
		return
	}

	// Admins cannot demote themselves; someone must stay in charge.
	if id == auth.UserID(r.Context()) && req.Role != model.RoleAdmin {
		writeError(w, http.StatusBadRequest, "cannot change your own role")
		return
	}

	user, err := h.users.UpdateRole(id, req.Role)
	if err != nil {
		h.logger.Error("update role", "user_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update role")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if id == auth.UserID(r.Context()) {
		writeError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	existing, err := h.users.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.users.Delete(id); err != nil {
		h.logger.Error("delete user", "user_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("user", "deleted", id, nil))
	}

	w.WriteHeader(http.StatusNoContent)
}
