package repositories

import (
	"time"

	"gorm.io/gorm"

	"gogo-api/models"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// FindByIDWithParticipants loads one message with both users preloaded.
func (r *MessageRepository) FindByIDWithParticipants(id string) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").Preload("Recipient").
		First(&message, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListConversation returns the last `limit` messages between the two
// users, oldest first.
func (r *MessageRepository) ListConversation(userID, otherID string, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").Preload("Recipient").
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse to chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ListInvolving returns every message the user sent or received, newest
// first. Used to build the conversation overview.
func (r *MessageRepository) ListInvolving(userID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// MarkConversationRead flips all unread messages from senderID to
// recipientID to read and returns how many were flipped.
func (r *MessageRepository) MarkConversationRead(recipientID, senderID string) (int64, error) {
	now := time.Now()
	result := r.db.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND `read` = ?", senderID, recipientID, false).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

// CountUnread returns how many unread messages the user has in total.
func (r *MessageRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	return count, err
}

// CountUnreadFrom returns how many unread messages the user has from
// one specific sender.
func (r *MessageRepository) CountUnreadFrom(recipientID, senderID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND `read` = ?", senderID, recipientID, false).
		Count(&count).Error
	return count, err
}
