package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, userID int64, name string) *Client {
	return &Client{
		hub:      hub,
		conn:     nil,
		send:     make(chan []byte, sendBufferSize),
		userID:   userID,
		userName: name,
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, 1, "Alice")
	c2 := mockClient(hub, 2, "Bob")

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)

	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, 1, "Alice")
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcastSyncEvent(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, 1, "Alice")
	c2 := mockClient(hub, 2, "Bob")
	hub.Register(c1)
	hub.Register(c2)

	msg := NewMessage("task", "created", 42, map[string]any{"points": float64(10)})
	hub.Broadcast(msg)

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "task_created" {
				t.Errorf("type = %s, want task_created", got.Type)
			}
			if got.Entity != "task" {
				t.Errorf("entity = %s, want task", got.Entity)
			}
			if got.ID != 42 {
				t.Errorf("id = %d, want 42", got.ID)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
}

func TestInboundChatPersistedAndRebroadcast(t *testing.T) {
	hub := NewHub(slog.Default())

	var savedUserID int64
	var savedBody string
	hub.OnChat(func(userID int64, userName, body string) (int64, error) {
		savedUserID = userID
		savedBody = body
		return 7, nil
	})

	sender := mockClient(hub, 3, "Carol")
	listener := mockClient(hub, 4, "Dave")
	hub.Register(sender)
	hub.Register(listener)

	hub.handleInbound(sender, []byte(`{"type":"chat","chat":{"body":"well done!"}}`))

	if savedUserID != 3 || savedBody != "well done!" {
		t.Errorf("persisted user=%d body=%q", savedUserID, savedBody)
	}

	// Both sender and listener get the persisted message back.
	for _, c := range []*Client{sender, listener} {
		select {
		case data := <-c.send:
			var got Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "chat" || got.Chat == nil {
				t.Fatalf("frame = %+v, want chat", got)
			}
			if got.Chat.ID != 7 || got.Chat.UserName != "Carol" || got.Chat.Body != "well done!" {
				t.Errorf("chat = %+v", got.Chat)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for chat frame")
		}
	}
}

func TestInboundChatPersistFailureNotBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.OnChat(func(userID int64, userName, body string) (int64, error) {
		return 0, errors.New("db closed")
	})

	c := mockClient(hub, 1, "Alice")
	hub.Register(c)

	hub.handleInbound(c, []byte(`{"type":"chat","chat":{"body":"hi"}}`))

	select {
	case <-c.send:
		t.Error("failed persist should not broadcast")
	default:
	}
}

func TestInboundIgnoresGarbageAndEmptyChat(t *testing.T) {
	hub := NewHub(slog.Default())
	called := false
	hub.OnChat(func(userID int64, userName, body string) (int64, error) {
		called = true
		return 1, nil
	})

	c := mockClient(hub, 1, "Alice")
	hub.Register(c)

	hub.handleInbound(c, []byte(`not json`))
	hub.handleInbound(c, []byte(`{"type":"chat","chat":{"body":""}}`))
	hub.handleInbound(c, []byte(`{"type":"task_created"}`))

	if called {
		t.Error("no frame should have reached the chat callback")
	}
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	hub.Broadcast(NewMessage("completion", "created", 1, nil))
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub, 1, "Alice")
	hub.Register(c)

	// Fill the send buffer
	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(NewMessage("test", "fill", int64(i), nil))
	}

	// This should drop the message, not panic or block
	hub.Broadcast(NewMessage("test", "dropped", 999, nil))

	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}

	hub.Unregister(c)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("ranking", "updated", 5, nil)
	if msg.Type != "ranking_updated" {
		t.Errorf("type = %s, want ranking_updated", msg.Type)
	}
	if msg.Entity != "ranking" || msg.Action != "updated" || msg.ID != 5 {
		t.Errorf("msg = %+v", msg)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			c := mockClient(hub, n, "user")
			hub.Register(c)
			hub.Broadcast(NewMessage("test", "concurrent", 0, nil))
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}(int64(i))
	}

	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}
