package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cbonnaire/tidyquest/internal/auth"
	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/store"
	"github.com/cbonnaire/tidyquest/internal/websocket"
)

type ReportHandler struct {
	reports     *store.ReportStore
	completions *store.CompletionStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewReportHandler(rs *store.ReportStore, cs *store.CompletionStore, hub *websocket.Hub, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: rs, completions: cs, hub: hub, logger: logger}
}

// Create disputes a completion: the ledger entry is deleted, its points
// reversed, and the report recorded, all in one transaction.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompletionID int64 `json:"completion_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	completion, err := h.completions.GetByID(req.CompletionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get completion")
		return
	}
	if completion == nil {
		writeError(w, http.StatusNotFound, "completion not found")
		return
	}

	reporterID := auth.UserID(r.Context())
	report, err := h.reports.File(reporterID, *completion)
	if err != nil {
		h.logger.Error("file report", "completion_id", req.CompletionID, "error", err)
		writeError(w, http.StatusConflict, "completion already reported or removed")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("report", "created", report.ID, map[string]any{
			"reported_user_id": report.ReportedUserID,
			"task_id":          report.TaskID,
		}))
	}

	writeJSON(w, http.StatusCreated, report)
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []model.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}
