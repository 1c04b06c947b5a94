package ws

import (
	"context"
	"sync"

	"estatehub_backend/internal/logger"
)

// WebSocketManager tracks live connections per user and fans events out to them.
// A user may hold several connections (tabs, devices).
type WebSocketManager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves register/unregister until ctx is cancelled, then closes every client.
func (m *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(m.done)
			m.closeAll()
			return

		case client := <-m.register:
			m.mu.Lock()
			set, ok := m.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				m.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			m.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID, "connections", len(set))

		case client := <-m.unregister:
			m.remove(client)
		}
	}
}

func (m *WebSocketManager) remove(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(m.clients, client.UserID)
	}
	logger.Debug("ws client unregistered", "user_id", client.UserID)
}

func (m *WebSocketManager) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, set := range m.clients {
		for client := range set {
			close(client.send)
		}
		delete(m.clients, userID)
	}
}

// Register hands a new connection to the run loop. It reports false after shutdown.
func (m *WebSocketManager) Register(client *Client) bool {
	select {
	case m.register <- client:
		return true
	case <-m.done:
		return false
	}
}

func (m *WebSocketManager) Unregister(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.done:
	}
}

// Notify queues event for every connection of userID. Slow clients whose
// buffer is full are dropped rather than blocking the sender.
func (m *WebSocketManager) Notify(userID string, event interface{}) {
	m.mu.RLock()
	var slow []*Client
	for client := range m.clients[userID] {
		select {
		case client.send <- event:
		default:
			slow = append(slow, client)
		}
	}
	m.mu.RUnlock()

	for _, client := range slow {
		logger.Warn("ws client too slow, dropping", "user_id", userID)
		m.remove(client)
	}
}

// Connections returns the number of live connections for userID.
func (m *WebSocketManager) Connections(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID])
}
