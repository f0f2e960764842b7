package hub

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Event types broadcast to lobby subscribers.
const (
	EventLobbyUpdated  = "lobby.updated"
	EventLobbyDeleted  = "lobby.deleted"
	EventMemberJoined  = "member.joined"
	EventMemberLeft    = "member.left"
	EventMemberKicked  = "member.kicked"
	EventLeaderChanged = "leader.changed"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single client connection (a user watching a lobby).
// The SSE handler drains it; a closed channel means the stream must end.
type Client chan []byte

// Hub manages all watched lobbies and their clients. Each client is
// registered under the user it streams to.
type Hub struct {
	lobbies map[uint]map[Client]uint
	mu      sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		lobbies: make(map[uint]map[Client]uint),
	}
}

// Subscribe adds a new client for userID to a specific lobby.
func (h *Hub) Subscribe(lobbyID, userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.lobbies[lobbyID]; !ok {
		h.lobbies[lobbyID] = make(map[Client]uint)
	}
	h.lobbies[lobbyID][client] = userID
}

// Unsubscribe removes a client from a lobby and closes it.
func (h *Hub) Unsubscribe(lobbyID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.lobbies[lobbyID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.lobbies, lobbyID)
			}
		}
	}
}

// Disconnect closes every client userID has open on a lobby. Events already
// queued for those clients are still delivered before their streams end.
func (h *Hub) Disconnect(lobbyID, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.lobbies[lobbyID]
	for client, owner := range clients {
		if owner == userID {
			delete(clients, client)
			close(client)
		}
	}
	if len(clients) == 0 {
		delete(h.lobbies, lobbyID)
	}
}

// CloseLobby disconnects every client of a lobby.
func (h *Hub) CloseLobby(lobbyID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.lobbies[lobbyID] {
		close(client)
	}
	delete(h.lobbies, lobbyID)
}

// Close disconnects every client of every lobby.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for lobbyID, clients := range h.lobbies {
		for client := range clients {
			close(client)
		}
		delete(h.lobbies, lobbyID)
	}
}

// Subscribers returns the number of clients watching a lobby.
func (h *Hub) Subscribers(lobbyID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.lobbies[lobbyID])
}

// Broadcast sends an event to all clients in a specific lobby.
func (h *Hub) Broadcast(lobbyID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.lobbies[lobbyID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"lobby_id": lobbyID, "event": event.Type}).Error("Failed to encode hub event")
		return
	}

	for client := range clients {
		// A slow client must not block the hub.
		select {
		case client <- messageBytes:
		default:
			logrus.WithFields(logrus.Fields{"lobby_id": lobbyID, "event": event.Type}).Warn("Dropping event for slow client")
		}
	}
}
