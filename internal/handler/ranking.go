package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/push"
	"github.com/cbonnaire/tidyquest/internal/ranking"
	"github.com/cbonnaire/tidyquest/internal/store"
	"github.com/cbonnaire/tidyquest/internal/websocket"
)

type RankingHandler struct {
	rankings *store.RankingStore
	podiums  *store.PodiumStore
	hub      *websocket.Hub
	notifier *push.Notifier
	logger   *slog.Logger
}

func NewRankingHandler(rs *store.RankingStore, ps *store.PodiumStore, hub *websocket.Hub, notifier *push.Notifier, logger *slog.Logger) *RankingHandler {
	return &RankingHandler{rankings: rs, podiums: ps, hub: hub, notifier: notifier, logger: logger}
}

// Ranking returns the standings ordered by ?metric=weekly|total
// (weekly by default).
func (h *RankingHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	metric := ranking.MetricWeekly
	switch r.URL.Query().Get("metric") {
	case "", string(ranking.MetricWeekly):
	case string(ranking.MetricTotal):
		metric = ranking.MetricTotal
	default:
		writeError(w, http.StatusBadRequest, "metric must be weekly or total")
		return
	}

	entries, err := h.rankings.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list ranking")
		return
	}

	ranked := ranking.Rank(entries, metric)
	if ranked == nil {
		ranked = []model.RankingEntry{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

func (h *RankingHandler) Podiums(w http.ResponseWriter, r *http.Request) {
	podiums, err := h.podiums.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list podiums")
		return
	}
	if podiums == nil {
		podiums = []model.Podium{}
	}
	writeJSON(w, http.StatusOK, podiums)
}

// ResetWeek archives the current top 3 as a podium, copies weekly
// points to previous, and zeroes the weekly counters.
func (h *RankingHandler) ResetWeek(w http.ResponseWriter, r *http.Request) {
	entries, err := h.rankings.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list ranking")
		return
	}

	top := ranking.Podium(entries)
	podium, err := h.rankings.ResetWeek(top)
	if err != nil {
		h.logger.Error("weekly reset", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset week")
		return
	}

	var podiumID int64
	if podium != nil {
		podiumID = podium.ID
	}
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("ranking", "reset", podiumID, nil))
	}
	if h.notifier != nil {
		go h.notifier.NotifyWeeklyReset(context.Background(), podium)
	}

	if podium == nil {
		writeJSON(w, http.StatusOK, map[string]any{"podium": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"podium": podium})
}
