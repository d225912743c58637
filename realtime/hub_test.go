package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID string, buffer int) *Client {
	return &Client{
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, buffer),
	}
}

func receiveEvent(t *testing.T, c *Client) eventEnvelope {
	t.Helper()
	select {
	case raw := <-c.send:
		var env eventEnvelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	default:
		t.Fatal("expected an event but the send buffer is empty")
		return eventEnvelope{}
	}
}

func TestEmitReachesRoomMembersOnly(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "alice", 4)
	bob := newTestClient(hub, "bob", 4)

	hub.join(RoomLocations, alice)
	hub.join(UserRoom("bob"), bob)

	hub.Emit(RoomLocations, EventLocationCreated, map[string]string{"id": "loc-1"})

	env := receiveEvent(t, alice)
	assert.Equal(t, EventLocationCreated, env.Event)
	assert.Empty(t, bob.send)
}

func TestEmitToUser(t *testing.T) {
	hub := NewHub()
	bob := newTestClient(hub, "bob", 4)
	hub.join(UserRoom("bob"), bob)

	hub.EmitToUser("bob", EventFriendRequestReceived, map[string]string{"request_id": "r1"})

	env := receiveEvent(t, bob)
	assert.Equal(t, EventFriendRequestReceived, env.Event)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "r1", data["request_id"])
}

func TestEmitSkipsSlowClients(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(hub, "slow", 1)
	fast := newTestClient(hub, "fast", 4)
	hub.join(RoomMessages, slow)
	hub.join(RoomMessages, fast)

	// Fill the slow client's buffer
	hub.Emit(RoomMessages, EventMessageSent, "first")
	// Must not block even though slow cannot take more
	hub.Emit(RoomMessages, EventMessageSent, "second")

	assert.Len(t, slow.send, 1)
	assert.Len(t, fast.send, 2)
}

func TestLeaveAndRemoveClient(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub, "alice", 4)

	hub.join(RoomFriends, c)
	hub.join(RoomLocations, c)
	assert.Equal(t, 1, hub.RoomSize(RoomFriends))

	hub.leave(RoomFriends, c)
	assert.Equal(t, 0, hub.RoomSize(RoomFriends))
	assert.Equal(t, 1, hub.RoomSize(RoomLocations))

	hub.removeClient(c)
	assert.Equal(t, 0, hub.RoomSize(RoomLocations))

	hub.Emit(RoomLocations, EventLocationDeleted, nil)
	assert.Empty(t, c.send)
}

func TestJoinableRooms(t *testing.T) {
	assert.True(t, joinableRooms[RoomLocations])
	assert.True(t, joinableRooms[RoomFriends])
	assert.True(t, joinableRooms[RoomMessages])
	assert.False(t, joinableRooms["user:alice"])
}
