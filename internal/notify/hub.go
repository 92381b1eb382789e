package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ananyev/craftmarket/internal/model"
	"github.com/gorilla/websocket"
)

// Hub fans user-addressed events out to that user's websocket connections.
// Delivery is fire-and-forget: a user with no open connection simply misses
// the event, and a slow connection gets dropped rather than block the rest.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.uid] == nil {
		h.clients[c.uid] = make(map[*Client]struct{})
	}
	h.clients[c.uid][c] = struct{}{}
}

func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.uid]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.uid)
		}
	}
}

func (h *Hub) Push(userID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.Send <- payload:
		default:
			go c.Close()
		}
	}
}

// ReviewPublished implements the review service's Notifier.
func (h *Hub) ReviewPublished(ctx context.Context, vendorID string, rec *model.Review) error {
	env := map[string]any{
		"type":     "review.published",
		"reviewId": rec.ID,
		"rating":   rec.Rating,
	}
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	h.Push(vendorID, b)
	return nil
}

// ContactReceived implements the contact service's Notifier.
func (h *Hub) ContactReceived(ctx context.Context, vendorID string, msg *model.ContactMessage) error {
	env := map[string]any{
		"type":      "contact.received",
		"messageId": msg.ID,
		"subject":   msg.Subject,
	}
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	h.Push(vendorID, b)
	return nil
}

type Client struct {
	conn *websocket.Conn
	hub  *Hub
	uid  string
	Send chan []byte

	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, hub *Hub, userID string) *Client {
	return &Client{
		conn: conn,
		hub:  hub,
		uid:  userID,
		Send: make(chan []byte, 64),
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
		c.hub.Remove(c)
		close(c.Send)
	})
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump keeps the connection alive; inbound frames are discarded since
// notifications flow one way.
func (c *Client) ReadPump() {
	defer c.Close()
	c.conn.SetReadLimit(4 << 10)
	c.conn.SetReadDeadline(time.Now().Add(70 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(70 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}
