package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gogo-api/logger"
	"gogo-api/middleware"
	"gogo-api/models"
	"gogo-api/realtime"
	"gogo-api/repositories"
	"gogo-api/services"
	"gogo-api/utils"
)

const (
	conversationPageSize = 50
	pushPreviewRunes     = 100
)

// messagePreview shortens content for a push body. Truncation counts
// runes, not bytes: cutting a multi-byte character in half would make
// FCM reject the whole notification.
func messagePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= pushPreviewRunes {
		return content
	}
	return string(runes[:pushPreviewRunes]) + "..."
}

// MessageController handles direct messages. Messaging is gated on an
// accepted friendship in both directions of every operation.
type MessageController struct {
	messages      *repositories.MessageRepository
	users         *repositories.UserRepository
	friendService *services.FriendService
	pushService   *services.PushService
	hub           *realtime.Hub
}

func NewMessageController(messages *repositories.MessageRepository, users *repositories.UserRepository, friendService *services.FriendService, pushService *services.PushService, hub *realtime.Hub) *MessageController {
	return &MessageController{
		messages:      messages,
		users:         users,
		friendService: friendService,
		pushService:   pushService,
		hub:           hub,
	}
}

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

func (mc *MessageController) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Recipient ID and content are required")
		return
	}

	senderID := middleware.UserID(c)
	if req.RecipientID == senderID {
		utils.BadRequest(c, "Cannot send a message to yourself")
		return
	}

	ok, err := mc.friendService.AreFriends(senderID, req.RecipientID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	if !ok {
		utils.Forbidden(c, "You can only message friends")
		return
	}

	message := &models.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
	}
	if err := mc.messages.Create(message); err != nil {
		utils.Error(c, err)
		return
	}

	full, err := mc.messages.FindByIDWithParticipants(message.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	go mc.notifySent(full)

	utils.Created(c, "Message sent", gin.H{"data": full.ToResponse()})
}

func (mc *MessageController) notifySent(message *models.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp := message.ToResponse()
	mc.hub.EmitToUser(message.RecipientID, realtime.EventMessageSent, resp)
	mc.hub.EmitToUser(message.SenderID, realtime.EventMessageSent, resp)
	mc.hub.Emit(realtime.RoomMessages, realtime.EventMessageSent, resp)

	recipient, err := mc.users.FindByID(message.RecipientID)
	if err != nil || recipient == nil || recipient.FCMToken == nil {
		return
	}

	mc.pushService.SendMessagePush(ctx, *recipient.FCMToken, &message.Sender, message.ID, messagePreview(message.Content))
}

// GetConversation returns the last messages with one friend, oldest first.
func (mc *MessageController) GetConversation(c *gin.Context) {
	userID := middleware.UserID(c)
	otherID := c.Param("userId")

	ok, err := mc.friendService.AreFriends(userID, otherID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	if !ok {
		utils.Forbidden(c, "You can only view conversations with friends")
		return
	}

	messages, err := mc.messages.ListConversation(userID, otherID, conversationPageSize)
	if err != nil {
		utils.Error(c, err)
		return
	}

	out := make([]models.MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, messages[i].ToResponse())
	}

	utils.OK(c, "", gin.H{"data": out, "count": len(out)})
}

// ListConversations summarizes the latest message and unread count per
// conversation partner, most recent first.
func (mc *MessageController) ListConversations(c *gin.Context) {
	userID := middleware.UserID(c)

	messages, err := mc.messages.ListInvolving(userID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	seen := make(map[string]bool)
	conversations := make([]models.Conversation, 0)
	for i := range messages {
		m := &messages[i]
		other := &m.Recipient
		if m.RecipientID == userID {
			other = &m.Sender
		}
		if seen[other.ID] {
			continue
		}
		seen[other.ID] = true

		unread, err := mc.messages.CountUnreadFrom(userID, other.ID)
		if err != nil {
			utils.Error(c, err)
			return
		}

		conversations = append(conversations, models.Conversation{
			User:        other.Public(),
			LastMessage: m.ToResponse(),
			UnreadCount: int(unread),
		})
	}

	utils.OK(c, "", gin.H{"data": conversations, "count": len(conversations)})
}

// MarkAsRead flips all unread messages from one sender to read and
// reports how many were flipped.
func (mc *MessageController) MarkAsRead(c *gin.Context) {
	userID := middleware.UserID(c)
	senderID := c.Param("userId")

	count, err := mc.messages.MarkConversationRead(userID, senderID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	if count > 0 {
		go func() {
			payload := map[string]interface{}{
				"reader_id": userID,
				"sender_id": senderID,
				"count":     count,
			}
			mc.hub.EmitToUser(senderID, realtime.EventMessagesRead, payload)
			mc.hub.EmitToUser(userID, realtime.EventMessagesRead, payload)
			mc.hub.Emit(realtime.RoomMessages, realtime.EventMessagesRead, payload)
		}()
	}

	logger.Debug("Messages marked read", "userId", userID, "from", senderID, "count", count)
	utils.OK(c, "Messages marked as read", gin.H{"count": count})
}

// UnreadCount returns the caller's total unread message count.
func (mc *MessageController) UnreadCount(c *gin.Context) {
	count, err := mc.messages.CountUnread(middleware.UserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "", gin.H{"count": count})
}
