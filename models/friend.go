package models

import "time"

type FriendStatus string

const (
	FriendStatusPending  FriendStatus = "pending"
	FriendStatusAccepted FriendStatus = "accepted"
	FriendStatusRejected FriendStatus = "rejected"
)

// Friend is a relationship record between two users: directional while
// pending, symmetric once accepted. At most one record exists per pair,
// enforced by the unique index on (requester_id, recipient_id) plus a
// pre-creation lookup across both orderings.
type Friend struct {
	ID          string       `json:"id" gorm:"primaryKey;size:191"`
	RequesterID string       `json:"requester_id" gorm:"not null;size:191;uniqueIndex:uk_friends_pair"`
	RecipientID string       `json:"recipient_id" gorm:"not null;size:191;uniqueIndex:uk_friends_pair;index:idx_friends_recipient_status,priority:1"`
	Status      FriendStatus `json:"status" gorm:"not null;default:'pending';size:20;index:idx_friends_recipient_status,priority:2"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Requester User `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Recipient User `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
}

func (Friend) TableName() string {
	return "friends"
}

// OtherParty returns the id of the participant that is not userID.
// Used uniformly by friend listing, unfriending and notification
// fan-out instead of branching on requester/recipient at call sites.
func (f *Friend) OtherParty(userID string) string {
	if f.RequesterID == userID {
		return f.RecipientID
	}
	return f.RequesterID
}

// Involves reports whether userID is one of the two participants.
func (f *Friend) Involves(userID string) bool {
	return f.RequesterID == userID || f.RecipientID == userID
}
