package repositories

import (
	"errors"

	"gorm.io/gorm"

	"gogo-api/apperrors"
	"gogo-api/models"
)

// FriendRepository is the persistence layer of the friendship state
// machine. Lookups return (nil, nil) when no record exists so callers
// never have to unwrap storage errors.
type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

func (r *FriendRepository) FindByID(id string) (*models.Friend, error) {
	var friend models.Friend
	err := r.db.First(&friend, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &friend, nil
}

// FindBetween looks up the single record for the unordered pair {a, b},
// matching both orderings.
func (r *FriendRepository) FindBetween(a, b string) (*models.Friend, error) {
	var friend models.Friend
	err := r.db.Where("(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
		a, b, b, a).First(&friend).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &friend, nil
}

// Create inserts a new record. A duplicate insert racing the unique
// pair index comes back as a conflict, not a storage error.
func (r *FriendRepository) Create(friend *models.Friend) error {
	if err := r.db.Create(friend).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("Friend request already exists")
		}
		return err
	}
	return nil
}

func (r *FriendRepository) Save(friend *models.Friend) error {
	return r.db.Save(friend).Error
}

func (r *FriendRepository) Delete(friend *models.Friend) error {
	return r.db.Delete(friend).Error
}

// ListAccepted returns all accepted friendships involving userID with
// both participants preloaded, most recently updated first.
func (r *FriendRepository) ListAccepted(userID string) ([]models.Friend, error) {
	var friendships []models.Friend
	err := r.db.Preload("Requester").Preload("Recipient").
		Where("(requester_id = ? OR recipient_id = ?) AND status = ?",
			userID, userID, models.FriendStatusAccepted).
		Order("updated_at DESC").
		Find(&friendships).Error
	return friendships, err
}

// ListPendingFor returns pending requests where userID is the recipient,
// newest first, with the requester profile preloaded.
func (r *FriendRepository) ListPendingFor(userID string) ([]models.Friend, error) {
	var requests []models.Friend
	err := r.db.Preload("Requester").
		Where("recipient_id = ? AND status = ?", userID, models.FriendStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *FriendRepository) AreFriends(a, b string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Friend{}).
		Where("((requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)) AND status = ?",
			a, b, b, a, models.FriendStatusAccepted).
		Count(&count).Error
	return count > 0, err
}
