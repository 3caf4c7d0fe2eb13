package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cbonnaire/tidyquest/internal/export"
	"github.com/cbonnaire/tidyquest/internal/store"
)

type ExportHandler struct {
	tasks       *store.TaskStore
	completions *store.CompletionStore
	rankings    *store.RankingStore
	objectives  *store.ObjectiveStore
	logger      *slog.Logger
}

func NewExportHandler(ts *store.TaskStore, cs *store.CompletionStore, rs *store.RankingStore, os *store.ObjectiveStore, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{tasks: ts, completions: cs, rankings: rs, objectives: os, logger: logger}
}

func setCSVHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

func (h *ExportHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	entries, err := h.rankings.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list ranking")
		return
	}
	setCSVHeaders(w, "ranking.csv")
	if err := export.Ranking(w, entries); err != nil {
		h.logger.Error("export ranking", "error", err)
	}
}

func (h *ExportHandler) Completions(w http.ResponseWriter, r *http.Request) {
	completions, err := h.completions.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list completions")
		return
	}
	setCSVHeaders(w, "completions.csv")
	if err := export.Completions(w, completions); err != nil {
		h.logger.Error("export completions", "error", err)
	}
}

func (h *ExportHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	setCSVHeaders(w, "tasks.csv")
	if err := export.Tasks(w, tasks); err != nil {
		h.logger.Error("export tasks", "error", err)
	}
}

func (h *ExportHandler) Objectives(w http.ResponseWriter, r *http.Request) {
	objectives, err := h.objectives.ListWithProgress()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list objectives")
		return
	}
	setCSVHeaders(w, "objectives.csv")
	if err := export.Objectives(w, objectives); err != nil {
		h.logger.Error("export objectives", "error", err)
	}
}
