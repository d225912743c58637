package realtime

// Socket event names shared with the mobile client.
const (
	// Friend events
	EventFriendRequestReceived = "friend:request:received"
	EventFriendRequestAccepted = "friend:request:accepted"
	EventFriendAdded           = "friend:added"
	EventFriendRemoved         = "friend:removed"

	// Location events
	EventLocationCreated = "location:created"
	EventLocationUpdated = "location:updated"
	EventLocationDeleted = "location:deleted"

	// Message events
	EventMessageSent  = "message:sent"
	EventMessagesRead = "messages:read"
)

// Room names. Each connected user additionally sits in their private
// user room.
const (
	RoomLocations = "locations"
	RoomFriends   = "friends"
	RoomMessages  = "messages"
)

// UserRoom returns the private room of one user.
func UserRoom(userID string) string {
	return "user:" + userID
}

// joinableRooms are the rooms clients may join and leave explicitly.
var joinableRooms = map[string]bool{
	RoomLocations: true,
	RoomFriends:   true,
	RoomMessages:  true,
}
