package models

import "time"

// Message is one direct message between two friended users. It is only
// ever mutated by the bulk mark-as-read flip.
type Message struct {
	ID          string     `json:"id" gorm:"primaryKey;size:191"`
	SenderID    string     `json:"sender_id" gorm:"not null;size:191;index:idx_messages_conversation,priority:1"`
	RecipientID string     `json:"recipient_id" gorm:"not null;size:191;index:idx_messages_conversation,priority:2"`
	Content     string     `json:"content" gorm:"not null;type:text"`
	Read        bool       `json:"read" gorm:"default:false;index:idx_messages_unread"`
	ReadAt      *time.Time `json:"read_at"`
	// Conversation history is always read newest-first
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_messages_conversation,priority:3,sort:desc"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Sender    User `json:"-" gorm:"foreignKey:SenderID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}

// MessageResponse carries a message with populated participant info.
type MessageResponse struct {
	ID          string        `json:"id"`
	Sender      PublicProfile `json:"sender"`
	Recipient   PublicProfile `json:"recipient"`
	Content     string        `json:"content"`
	Read        bool          `json:"read"`
	ReadAt      *time.Time    `json:"read_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Sender:    m.Sender.Public(),
		Recipient: m.Recipient.Public(),
		Content:   m.Content,
		Read:      m.Read,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Conversation summarizes the latest exchange with one user.
type Conversation struct {
	User        PublicProfile   `json:"user"`
	LastMessage MessageResponse `json:"last_message"`
	UnreadCount int             `json:"unread_count"`
}
