package services

import (
	"time"

	"github.com/google/uuid"

	"gogo-api/apperrors"
	"gogo-api/models"
)

// RequestOutcome tells the caller which transition a send-request call
// actually performed, so fan-out can notify the right parties.
type RequestOutcome string

const (
	// OutcomeRequested: no prior record, a fresh pending request was created.
	OutcomeRequested RequestOutcome = "requested"
	// OutcomeAutoAccepted: a pending request in the opposite direction
	// existed and flipped straight to accepted.
	OutcomeAutoAccepted RequestOutcome = "auto_accepted"
	// OutcomeRevived: a rejected record was reset to pending, possibly
	// flipping direction.
	OutcomeRevived RequestOutcome = "revived"
)

// FriendStore is the slice of the friend repository the state machine
// consumes. Lookups return (nil, nil) when no record exists.
type FriendStore interface {
	FindByID(id string) (*models.Friend, error)
	FindBetween(a, b string) (*models.Friend, error)
	Create(friend *models.Friend) error
	Save(friend *models.Friend) error
	Delete(friend *models.Friend) error
	ListAccepted(userID string) ([]models.Friend, error)
	ListPendingFor(userID string) ([]models.Friend, error)
	AreFriends(a, b string) (bool, error)
}

// UserFinder resolves user ids to profiles; (nil, nil) means absent.
type UserFinder interface {
	FindByID(id string) (*models.User, error)
}

// FriendService drives the friendship lifecycle:
// pending -> accepted/rejected, auto-accept on a reciprocal request,
// revival of rejected records, and unfriending. Concurrency control is
// the store's unique pair constraint; a racing duplicate insert is
// surfaced to one caller as a conflict.
type FriendService struct {
	friends FriendStore
	users   UserFinder
}

func NewFriendService(friends FriendStore, users UserFinder) *FriendService {
	return &FriendService{friends: friends, users: users}
}

// FriendSummary is one entry of a friends listing: the other party's
// profile plus the friendship record's id and timestamps, symmetric
// regardless of which side initiated.
type FriendSummary struct {
	models.PublicProfile
	FriendshipID string    `json:"friendship_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SendRequest applies the request transition table for the pair
// {requesterID, recipientID} and reports which transition happened.
func (s *FriendService) SendRequest(requesterID, recipientID string) (*models.Friend, RequestOutcome, error) {
	if recipientID == "" {
		return nil, "", apperrors.InvalidArgument("Recipient ID is required")
	}
	if requesterID == recipientID {
		return nil, "", apperrors.InvalidArgument("Cannot send friend request to yourself")
	}

	recipient, err := s.users.FindByID(recipientID)
	if err != nil {
		return nil, "", err
	}
	if recipient == nil {
		return nil, "", apperrors.NotFound("Recipient not found")
	}

	existing, err := s.friends.FindBetween(requesterID, recipientID)
	if err != nil {
		return nil, "", err
	}

	if existing != nil {
		switch existing.Status {
		case models.FriendStatusAccepted:
			return nil, "", apperrors.Conflict("Already friends")

		case models.FriendStatusPending:
			if existing.RequesterID == requesterID {
				return nil, "", apperrors.Conflict("Friend request already sent")
			}
			// The recipient of a pending request is requesting back:
			// flip the existing record to accepted instead of creating
			// a second one.
			existing.Status = models.FriendStatusAccepted
			if err := s.friends.Save(existing); err != nil {
				return nil, "", err
			}
			return existing, OutcomeAutoAccepted, nil

		case models.FriendStatusRejected:
			// Revive the rejected record in the new direction.
			existing.RequesterID = requesterID
			existing.RecipientID = recipientID
			existing.Status = models.FriendStatusPending
			if err := s.friends.Save(existing); err != nil {
				return nil, "", err
			}
			return existing, OutcomeRevived, nil
		}
	}

	friend := &models.Friend{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.FriendStatusPending,
	}
	if err := s.friends.Create(friend); err != nil {
		// A reciprocal request in the same instant can lose the race
		// on the unique index; the store reports that as a conflict.
		return nil, "", err
	}
	return friend, OutcomeRequested, nil
}

// Accept transitions a pending request to accepted. Only the recipient
// may accept, and only while the request is pending.
func (s *FriendService) Accept(requestID, userID string) (*models.Friend, error) {
	friend, err := s.pendingRequestFor(requestID, userID)
	if err != nil {
		return nil, err
	}

	friend.Status = models.FriendStatusAccepted
	if err := s.friends.Save(friend); err != nil {
		return nil, err
	}
	return friend, nil
}

// Reject transitions a pending request to rejected, same guards as Accept.
func (s *FriendService) Reject(requestID, userID string) (*models.Friend, error) {
	friend, err := s.pendingRequestFor(requestID, userID)
	if err != nil {
		return nil, err
	}

	friend.Status = models.FriendStatusRejected
	if err := s.friends.Save(friend); err != nil {
		return nil, err
	}
	return friend, nil
}

func (s *FriendService) pendingRequestFor(requestID, userID string) (*models.Friend, error) {
	friend, err := s.friends.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if friend == nil {
		return nil, apperrors.NotFound("Friend request not found")
	}
	if friend.RecipientID != userID {
		return nil, apperrors.Forbidden("Not authorized to respond to this request")
	}
	if friend.Status != models.FriendStatusPending {
		return nil, apperrors.InvalidState("Friend request is not pending")
	}
	return friend, nil
}

// Unfriend removes an accepted friendship. Either party may remove it.
// The removed record is returned so the caller can notify both sides.
func (s *FriendService) Unfriend(friendshipID, userID string) (*models.Friend, error) {
	friend, err := s.friends.FindByID(friendshipID)
	if err != nil {
		return nil, err
	}
	if friend == nil {
		return nil, apperrors.NotFound("Friendship not found")
	}
	if !friend.Involves(userID) {
		return nil, apperrors.Forbidden("Not authorized to remove this friendship")
	}
	if friend.Status != models.FriendStatusAccepted {
		return nil, apperrors.InvalidState("Friendship is not accepted")
	}

	if err := s.friends.Delete(friend); err != nil {
		return nil, err
	}
	return friend, nil
}

// ListFriends returns the other party of every accepted friendship
// involving userID.
func (s *FriendService) ListFriends(userID string) ([]FriendSummary, error) {
	friendships, err := s.friends.ListAccepted(userID)
	if err != nil {
		return nil, err
	}

	friends := make([]FriendSummary, 0, len(friendships))
	for i := range friendships {
		f := &friendships[i]
		other := f.Recipient
		if f.OtherParty(userID) == f.RequesterID {
			other = f.Requester
		}
		friends = append(friends, FriendSummary{
			PublicProfile: other.Public(),
			FriendshipID:  f.ID,
			CreatedAt:     f.CreatedAt,
			UpdatedAt:     f.UpdatedAt,
		})
	}
	return friends, nil
}

// ListPendingRequests returns pending requests addressed to userID.
func (s *FriendService) ListPendingRequests(userID string) ([]models.Friend, error) {
	return s.friends.ListPendingFor(userID)
}

// AreFriends reports whether the pair has an accepted friendship.
func (s *FriendService) AreFriends(a, b string) (bool, error) {
	return s.friends.AreFriends(a, b)
}
