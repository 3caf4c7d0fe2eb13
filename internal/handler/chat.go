package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/store"
)

const chatHistoryLimit = 50

type ChatHandler struct {
	chat     *store.ChatStore
	congrats *store.CongratsStore
	logger   *slog.Logger
}

func NewChatHandler(cs *store.ChatStore, gs *store.CongratsStore, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chat: cs, congrats: gs, logger: logger}
}

// Messages returns recent chat history, oldest first. Live messages
// arrive over the WebSocket.
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chat.ListRecent(chatHistoryLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if messages == nil {
		messages = []model.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// RandomCongratulation picks one congratulatory message at random.
func (h *ChatHandler) RandomCongratulation(w http.ResponseWriter, r *http.Request) {
	msg, err := h.congrats.Random()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to pick message")
		return
	}
	if msg == nil {
		writeError(w, http.StatusNotFound, "no congratulatory messages configured")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *ChatHandler) ListCongratulations(w http.ResponseWriter, r *http.Request) {
	messages, err := h.congrats.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if messages == nil {
		messages = []model.CongratulatoryMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) CreateCongratulation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		writeError(w, http.StatusBadRequest, "body is required")
		return
	}

	msg, err := h.congrats.Create(req.Body)
	if err != nil {
		h.logger.Error("create congratulation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create message")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) DeleteCongratulation(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.congrats.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete message")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
