// Package broadcast fans authoritative state out to the connections
// subscribed to a session, plus a global stream for registry events.
package broadcast

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gridmatch/gridmatch/internal/model"
)

// GlobalHubKey is the hub carrying registry-wide events (player list,
// score updates) to every connection
const GlobalHubKey = "global"

// envelope is one outbound message; an empty target reaches every
// subscriber
type envelope struct {
	target model.PlayerID
	data   []byte
}

// Hub manages the subscribers of one broadcast group
type Hub struct {
	key     string
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	outbound   chan envelope
	done       chan struct{}
}

// NewHub creates a new Hub for a broadcast group
func NewHub(key string, logger *slog.Logger) *Hub {
	return &Hub{
		key:        key,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("hub", key)),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan envelope, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client subscribed",
				slog.String("player_id", string(client.playerID)),
				slog.Int("total_clients", count),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("client unsubscribed",
					slog.String("player_id", string(client.playerID)),
					slog.Duration("connected_for", time.Since(client.connectedAt)),
					slog.Int("total_clients", count),
				)
			} else {
				h.mu.Unlock()
			}

		case msg := <-h.outbound:
			h.mu.RLock()
			for client := range h.clients {
				if msg.target != "" && client.playerID != msg.target {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Fire-and-forget: one slow client never blocks
					// delivery to the others
					h.logger.Warn("message dropped - client buffer full",
						slog.String("player_id", string(client.playerID)),
					)
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped")
			return
		}
	}
}

// Register adds a subscriber to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a subscriber from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a message for every subscriber
func (h *Hub) Broadcast(data []byte) {
	h.enqueue(envelope{data: data})
}

// Send queues a message for the subscribers of a single player
func (h *Hub) Send(playerID model.PlayerID, data []byte) {
	h.enqueue(envelope{target: playerID, data: data})
}

func (h *Hub) enqueue(msg envelope) {
	select {
	case h.outbound <- msg:
	default:
		h.logger.Warn("message dropped - hub buffer full")
	}
}

// Close shuts down the hub and disconnects its subscribers
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager manages the hubs for all broadcast groups
type HubManager struct {
	hubs   map[string]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[string]*Hub),
		logger: logger.With(slog.String("component", "broadcast")),
	}
}

// GetOrCreateHub returns the hub for a group, creating and starting
// one if it doesn't exist
func (m *HubManager) GetOrCreateHub(key string) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[key]; ok {
		return hub
	}

	hub := NewHub(key, m.logger)
	m.hubs[key] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a group, or nil if it doesn't exist
func (m *HubManager) GetHub(key string) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[key]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[key]; ok {
		hub.Close()
		delete(m.hubs, key)
		m.logger.Info("hub removed", slog.String("hub", key))
	}
}
