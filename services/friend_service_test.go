package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogo-api/apperrors"
	"gogo-api/models"
)

// memFriendStore mimics the repository including its unique pair
// constraint and (nil, nil) lookups.
type memFriendStore struct {
	friends map[string]*models.Friend
	users   map[string]*models.User
}

func newMemFriendStore(users map[string]*models.User) *memFriendStore {
	return &memFriendStore{
		friends: make(map[string]*models.Friend),
		users:   users,
	}
}

func (s *memFriendStore) FindByID(id string) (*models.Friend, error) {
	f, ok := s.friends[id]
	if !ok {
		return nil, nil
	}
	copied := *f
	return &copied, nil
}

func (s *memFriendStore) FindBetween(a, b string) (*models.Friend, error) {
	for _, f := range s.friends {
		if (f.RequesterID == a && f.RecipientID == b) || (f.RequesterID == b && f.RecipientID == a) {
			copied := *f
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memFriendStore) Create(friend *models.Friend) error {
	for _, f := range s.friends {
		if (f.RequesterID == friend.RequesterID && f.RecipientID == friend.RecipientID) ||
			(f.RequesterID == friend.RecipientID && f.RecipientID == friend.RequesterID) {
			return apperrors.Conflict("Friend request already exists")
		}
	}
	copied := *friend
	s.friends[friend.ID] = &copied
	return nil
}

func (s *memFriendStore) Save(friend *models.Friend) error {
	copied := *friend
	s.friends[friend.ID] = &copied
	return nil
}

func (s *memFriendStore) Delete(friend *models.Friend) error {
	delete(s.friends, friend.ID)
	return nil
}

func (s *memFriendStore) ListAccepted(userID string) ([]models.Friend, error) {
	var out []models.Friend
	for _, f := range s.friends {
		if f.Status != models.FriendStatusAccepted || !f.Involves(userID) {
			continue
		}
		copied := *f
		if u := s.users[f.RequesterID]; u != nil {
			copied.Requester = *u
		}
		if u := s.users[f.RecipientID]; u != nil {
			copied.Recipient = *u
		}
		out = append(out, copied)
	}
	return out, nil
}

func (s *memFriendStore) ListPendingFor(userID string) ([]models.Friend, error) {
	var out []models.Friend
	for _, f := range s.friends {
		if f.Status != models.FriendStatusPending || f.RecipientID != userID {
			continue
		}
		copied := *f
		if u := s.users[f.RequesterID]; u != nil {
			copied.Requester = *u
		}
		out = append(out, copied)
	}
	return out, nil
}

func (s *memFriendStore) AreFriends(a, b string) (bool, error) {
	f, _ := s.FindBetween(a, b)
	return f != nil && f.Status == models.FriendStatusAccepted, nil
}

type memUserFinder struct {
	users map[string]*models.User
}

func (s *memUserFinder) FindByID(id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func newTestFriendService(userIDs ...string) (*FriendService, *memFriendStore) {
	users := make(map[string]*models.User)
	for _, id := range userIDs {
		users[id] = &models.User{ID: id, Name: "User " + id, Email: id + "@example.com"}
	}
	store := newMemFriendStore(users)
	return NewFriendService(store, &memUserFinder{users: users}), store
}

func TestSendRequestCreatesPending(t *testing.T) {
	svc, _ := newTestFriendService("alice", "bob")

	friend, outcome, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRequested, outcome)
	assert.Equal(t, models.FriendStatusPending, friend.Status)
	assert.Equal(t, "alice", friend.RequesterID)
	assert.Equal(t, "bob", friend.RecipientID)
}

func TestSendRequestValidation(t *testing.T) {
	svc, _ := newTestFriendService("alice", "bob")

	_, _, err := svc.SendRequest("alice", "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))

	_, _, err = svc.SendRequest("alice", "alice")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))

	_, _, err = svc.SendRequest("alice", "nobody")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSendRequestDuplicateSameDirection(t *testing.T) {
	svc, _ := newTestFriendService("alice", "bob")

	_, _, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	_, _, err = svc.SendRequest("alice", "bob")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestSendRequestReciprocalAutoAccepts(t *testing.T) {
	svc, store := newTestFriendService("alice", "bob")

	first, _, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	second, outcome, err := svc.SendRequest("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAutoAccepted, outcome)
	assert.Equal(t, models.FriendStatusAccepted, second.Status)
	assert.Equal(t, first.ID, second.ID, "auto-accept must reuse the record")
	assert.Len(t, store.friends, 1)
}

func TestSendRequestWhenAlreadyFriends(t *testing.T) {
	svc, _ := newTestFriendService("alice", "bob")

	_, _, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)
	_, _, err = svc.SendRequest("bob", "alice")
	require.NoError(t, err)

	_, _, err = svc.SendRequest("alice", "bob")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	_, _, err = svc.SendRequest("bob", "alice")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestSendRequestRevivesRejected(t *testing.T) {
	svc, store := newTestFriendService("alice", "bob")

	first, _, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)
	_, err = svc.Reject(first.ID, "bob")
	require.NoError(t, err)

	// Bob, who rejected, now requests: the record revives in his
	// direction instead of a second row appearing.
	revived, outcome, err := svc.SendRequest("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRevived, outcome)
	assert.Equal(t, models.FriendStatusPending, revived.Status)
	assert.Equal(t, "bob", revived.RequesterID)
	assert.Equal(t, "alice", revived.RecipientID)
	assert.Equal(t, first.ID, revived.ID)
	assert.Len(t, store.friends, 1)
}

func TestAcceptGuards(t *testing.T) {
	svc, _ := newTestFriendService("alice", "bob")

	friend, _, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	_, err = svc.Accept("missing", "bob")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	// Only the recipient may respond
	_, err = svc.Accept(friend.ID, "alice")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	accepted, err := svc.Accept(friend.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.FriendStatusAccepted, accepted.Status)

	// Accepting twice is a state error, not idempotent
	_, err = svc.Accept(friend.ID, "bob")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestRejectGuards(t *testing.T) {
	svc, _ := newTestFriendService("alice", "bob")

	friend, _, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	_, err = svc.Reject(friend.ID, "alice")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	rejected, err := svc.Reject(friend.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.FriendStatusRejected, rejected.Status)

	_, err = svc.Reject(friend.ID, "bob")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestUnfriend(t *testing.T) {
	svc, _ := newTestFriendService("alice", "bob", "carol")

	friend, _, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	// Pending relationships cannot be unfriended
	_, err = svc.Unfriend(friend.ID, "alice")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	_, err = svc.Accept(friend.ID, "bob")
	require.NoError(t, err)

	_, err = svc.Unfriend(friend.ID, "carol")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = svc.Unfriend("missing", "alice")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	// Either party may remove the friendship
	removed, err := svc.Unfriend(friend.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, friend.ID, removed.ID)

	friends, err := svc.ListFriends("alice")
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestListFriendsIsSymmetric(t *testing.T) {
	svc, _ := newTestFriendService("alice", "bob")

	friend, _, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)
	_, err = svc.Accept(friend.ID, "bob")
	require.NoError(t, err)

	aliceFriends, err := svc.ListFriends("alice")
	require.NoError(t, err)
	require.Len(t, aliceFriends, 1)
	assert.Equal(t, "bob", aliceFriends[0].ID)
	assert.Equal(t, friend.ID, aliceFriends[0].FriendshipID)

	bobFriends, err := svc.ListFriends("bob")
	require.NoError(t, err)
	require.Len(t, bobFriends, 1)
	assert.Equal(t, "alice", bobFriends[0].ID)
}

func TestListPendingRequests(t *testing.T) {
	svc, _ := newTestFriendService("alice", "bob", "carol")

	_, _, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)
	_, _, err = svc.SendRequest("carol", "bob")
	require.NoError(t, err)

	requests, err := svc.ListPendingRequests("bob")
	require.NoError(t, err)
	assert.Len(t, requests, 2)

	// The requester sees nothing pending on their side
	requests, err = svc.ListPendingRequests("alice")
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestAreFriends(t *testing.T) {
	svc, _ := newTestFriendService("alice", "bob")

	ok, err := svc.AreFriends("alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	friend, _, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)
	_, err = svc.Accept(friend.ID, "bob")
	require.NoError(t, err)

	ok, err = svc.AreFriends("alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.AreFriends("bob", "alice")
	require.NoError(t, err)
	assert.True(t, ok)
}
