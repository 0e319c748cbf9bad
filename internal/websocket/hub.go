package websocket

import (
	"encoding/json"
	"sync"

	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/pkg/logger"
)

const MessageRecipePublished = "recipe_published"

// Client is one websocket session. A user may hold several (one per device).
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

func NewClient(hub *Hub, conn *Conn, userID uint) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
	}
}

// Delivery is a payload addressed to a set of users.
type Delivery struct {
	UserIDs []uint
	Message []byte
}

// RecipePublishedMessage is pushed to followers when an author publishes a recipe.
type RecipePublishedMessage struct {
	Type     string                  `json:"type"`
	AuthorID uint                    `json:"author_id"`
	Recipe   service.RecipeShortView `json:"recipe"`
}

// Hub tracks online sessions per user and fans deliveries out to them.
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	deliver    chan *Delivery

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		deliver:    make(chan *Delivery, 1024),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.removeClient(client)

		case delivery := <-h.deliver:
			h.mu.RLock()
			var stalled []*Client
			for _, userID := range delivery.UserIDs {
				for _, client := range h.clients[userID] {
					select {
					case client.Send <- delivery.Message:
					default:
						stalled = append(stalled, client)
					}
				}
			}
			h.mu.RUnlock()

			for _, client := range stalled {
				logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
					"user_id": client.UserID,
				})
				h.removeClient(client)
			}
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientList, ok := h.clients[client.UserID]
	if !ok {
		return
	}

	remaining := make([]*Client, 0, len(clientList))
	found := false
	for _, c := range clientList {
		if c == client {
			found = true
			continue
		}
		remaining = append(remaining, c)
	}
	if !found {
		return
	}

	if len(remaining) == 0 {
		delete(h.clients, client.UserID)
	} else {
		h.clients[client.UserID] = remaining
	}
	close(client.Send)

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"user_id":            client.UserID,
		"remaining_sessions": len(remaining),
	})
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// SendToUsers queues message for every online session of the given users.
// Messages are dropped when the queue is full; pushes are best effort.
func (h *Hub) SendToUsers(userIDs []uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err)
		return err
	}

	select {
	case h.deliver <- &Delivery{UserIDs: userIDs, Message: data}:
	default:
		logger.Warn("Delivery queue full, message dropped", map[string]interface{}{
			"recipients": len(userIDs),
		})
	}
	return nil
}

// NotifyRecipePublished pushes the new recipe to the author's online followers.
func (h *Hub) NotifyRecipePublished(followerIDs []uint, event service.RecipePublishedEvent) {
	err := h.SendToUsers(followerIDs, RecipePublishedMessage{
		Type:     MessageRecipePublished,
		AuthorID: event.AuthorID,
		Recipe:   event.Recipe,
	})
	if err != nil {
		logger.Error("Failed to notify followers", err, map[string]interface{}{
			"author_id": event.AuthorID,
			"recipe_id": event.Recipe.ID,
		})
	}
}
