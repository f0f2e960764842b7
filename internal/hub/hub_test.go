package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesLobbySubscribers(t *testing.T) {
	h := NewHub()
	inLobby := make(Client, 1)
	otherLobby := make(Client, 1)
	h.Subscribe(1, 7, inLobby)
	h.Subscribe(2, 7, otherLobby)

	h.Broadcast(1, Event{Type: EventMemberKicked, Payload: map[string]uint{"userId": 3}})

	require.Len(t, inLobby, 1)
	var got struct {
		Type    string          `json:"type"`
		Payload map[string]uint `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(<-inLobby, &got))
	assert.Equal(t, EventMemberKicked, got.Type)
	assert.Equal(t, uint(3), got.Payload["userId"])

	assert.Empty(t, otherLobby)
}

func TestHub_BroadcastSkipsFullClient(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(1, 7, client)

	h.Broadcast(1, Event{Type: EventLobbyUpdated})
	h.Broadcast(1, Event{Type: EventLobbyUpdated})

	assert.Len(t, client, 1)
}

func TestHub_UnsubscribeClosesClient(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(1, 7, client)
	assert.Equal(t, 1, h.Subscribers(1))

	h.Unsubscribe(1, client)
	assert.Equal(t, 0, h.Subscribers(1))

	_, open := <-client
	assert.False(t, open)

	// A second unsubscribe must not close the channel twice.
	assert.NotPanics(t, func() { h.Unsubscribe(1, client) })
}

func TestHub_CloseLobby(t *testing.T) {
	h := NewHub()
	first := make(Client, 1)
	second := make(Client, 1)
	h.Subscribe(5, 7, first)
	h.Subscribe(5, 7, second)

	h.CloseLobby(5)

	assert.Equal(t, 0, h.Subscribers(5))
	_, open := <-first
	assert.False(t, open)
	_, open = <-second
	assert.False(t, open)
	assert.NotPanics(t, func() { h.Unsubscribe(5, first) })
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	first := make(Client, 1)
	second := make(Client, 1)
	h.Subscribe(1, 7, first)
	h.Subscribe(2, 7, second)

	h.Close()

	assert.Equal(t, 0, h.Subscribers(1))
	assert.Equal(t, 0, h.Subscribers(2))
	_, open := <-first
	assert.False(t, open)
	_, open = <-second
	assert.False(t, open)
}

func TestHub_DisconnectClosesOnlyThatUser(t *testing.T) {
	h := NewHub()
	kicked := make(Client, 2)
	kickedSecondTab := make(Client, 2)
	stays := make(Client, 2)
	h.Subscribe(1, 3, kicked)
	h.Subscribe(1, 3, kickedSecondTab)
	h.Subscribe(1, 4, stays)

	h.Broadcast(1, Event{Type: EventMemberKicked})
	h.Disconnect(1, 3)
	h.Broadcast(1, Event{Type: EventLobbyUpdated})

	assert.Equal(t, 1, h.Subscribers(1))

	// The queued kick event is still readable, then the stream ends.
	msg, open := <-kicked
	require.True(t, open)
	assert.Contains(t, string(msg), EventMemberKicked)
	_, open = <-kicked
	assert.False(t, open)
	_, open = <-kickedSecondTab
	assert.True(t, open)
	_, open = <-kickedSecondTab
	assert.False(t, open)

	assert.Len(t, stays, 2)
	assert.NotPanics(t, func() { h.Unsubscribe(1, kicked) })
}

func TestHub_DisconnectLastClientDropsLobby(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(2, 3, client)

	h.Disconnect(2, 3)
	h.Disconnect(9, 3)

	assert.Equal(t, 0, h.Subscribers(2))
	h.mu.RLock()
	defer h.mu.RUnlock()
	assert.NotContains(t, h.lobbies, uint(2))
}
