// Package websocket keeps every connected client in sync: state change
// events (tasks, completions, rankings) are pushed out so clients never
// need to poll, and chat messages sent over the socket are persisted
// and fanned back out to everyone.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is a frame broadcast to all connected clients. Sync events
// use Entity/Action ("task"/"created", "ranking"/"updated"); chat
// frames carry the Chat payload instead.
type Message struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity,omitempty"`
	Action string         `json:"action,omitempty"`
	ID     int64          `json:"id,omitempty"`
	Chat   *ChatPayload   `json:"chat,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// ChatPayload is the chat message body carried in both directions:
// clients send {"type":"chat","chat":{"body":"..."}} and receive the
// persisted message with sender identity filled in.
type ChatPayload struct {
	ID       int64  `json:"id,omitempty"`
	UserID   int64  `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
	Body     string `json:"body"`
}

// NewMessage creates a sync event with the Type derived from entity and action.
func NewMessage(entity, action string, id int64, extra map[string]any) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	}
}

// NewChatMessage creates a chat frame for broadcast.
func NewChatMessage(id, userID int64, userName, body string) Message {
	return Message{
		Type: "chat",
		Chat: &ChatPayload{ID: id, UserID: userID, UserName: userName, Body: body},
	}
}

// ChatFunc persists an inbound chat message and returns its assigned ID.
type ChatFunc func(userID int64, userName, body string) (int64, error)

// Hub maintains the set of active WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
	onChat  ChatFunc
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// OnChat installs the persistence callback for inbound chat frames.
// Without one, chat frames are ignored.
func (h *Hub) OnChat(fn ChatFunc) {
	h.onChat = fn
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// handleInbound processes a frame read from a client. Only chat frames
// do anything: they are persisted, then rebroadcast to everyone with
// the sender's identity attached.
func (h *Hub) handleInbound(c *Client, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		h.logger.Warn("bad client frame", "user_id", c.userID, "error", err)
		return
	}
	if msg.Type != "chat" || msg.Chat == nil || msg.Chat.Body == "" {
		return
	}
	if h.onChat == nil {
		return
	}

	id, err := h.onChat(c.userID, c.userName, msg.Chat.Body)
	if err != nil {
		h.logger.Error("persist chat message", "user_id", c.userID, "error", err)
		return
	}
	h.Broadcast(NewChatMessage(id, c.userID, c.userName, msg.Chat.Body))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
