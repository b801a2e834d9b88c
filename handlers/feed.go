// handlers/feed.go
package handlers

import (
	"encoding/json"
	"sync"
	"time"

	"arcticcare-api/models"
	"arcticcare-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

// FeedHub broadcasts newly reported issues to connected dashboard clients.
type FeedHub struct {
	mu      sync.RWMutex
	clients map[*feedClient]bool
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewFeedHub() *FeedHub {
	return &FeedHub{clients: make(map[*feedClient]bool)}
}

// BroadcastIssue pushes a new issue to every connected client. Slow clients
// get dropped rather than blocking the reporting path.
func (h *FeedHub) BroadcastIssue(issue *models.Issue) {
	payload, err := json.Marshal(fiber.Map{
		"event": "issue_reported",
		"issue": issue,
	})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			logger.Warn("dropping slow feed client")
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (h *FeedHub) register(c *feedClient) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *FeedHub) unregister(c *feedClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func SetupFeedRoutes(app *fiber.App, hub *FeedHub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/feed", websocket.New(func(conn *websocket.Conn) {
		client := &feedClient{conn: conn, send: make(chan []byte, 16)}
		hub.register(client)
		defer hub.unregister(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			ticker := time.NewTicker(pingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.send:
					conn.SetWriteDeadline(time.Now().Add(writeWait))
					if !ok {
						conn.WriteMessage(websocket.CloseMessage, []byte{})
						return
					}
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()

		// Reads are discarded; the feed is broadcast-only. The read loop
		// exists to notice closed connections.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.unregister(client)
		<-done
	}))
}
