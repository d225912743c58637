package services

import (
	"context"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"gogo-api/config"
	"gogo-api/logger"
	"gogo-api/models"
)

// PushService delivers FCM notifications. Delivery is always
// best-effort: failures are logged and swallowed, an uninitialized
// client silently drops everything.
type PushService struct {
	client *messaging.Client
}

func NewPushService(cfg *config.Config) *PushService {
	s := &PushService{}
	ctx := context.Background()

	var opts []option.ClientOption
	switch {
	case cfg.FirebaseCredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON)))
	case cfg.FirebaseCredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsPath))
	default:
		logger.Warn("FCM not initialized: no Firebase credentials provided")
		return s
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		logger.Error("Failed to initialize Firebase app", "error", err)
		return s
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Error("Failed to get Firebase messaging client", "error", err)
		return s
	}

	s.client = client
	logger.Info("Firebase Admin SDK initialized for FCM")
	return s
}

func (s *PushService) IsInitialized() bool {
	return s.client != nil
}

// SendPush sends one notification to one device. Returns false when
// the push was dropped (uninitialized, missing token, invalid token).
func (s *PushService) SendPush(ctx context.Context, token, title, body string, data map[string]string) bool {
	if s.client == nil || token == "" {
		logger.Warn("FCM not available or token missing", "hasToken", token != "")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: token,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:      "default",
				ChannelID:  "friend_requests",
				Priority:   messaging.PriorityHigh,
				Visibility: messaging.VisibilityPublic,
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound:            "default",
					Badge:            intPtr(1),
					ContentAvailable: true,
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  body,
					},
				},
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		if messaging.IsUnregistered(err) {
			// Token cleanup happens on logout; nothing to do here.
			logger.Warn("FCM token unregistered", "token", truncateToken(token))
			return false
		}
		logger.Error("Error sending FCM notification", "error", err, "token", truncateToken(token))
		return false
	}

	logger.Info("FCM notification sent", "messageId", response, "token", truncateToken(token))
	return true
}

// SendFriendRequestPush notifies a recipient of a new friend request.
func (s *PushService) SendFriendRequestPush(ctx context.Context, token string, requester *models.User, requestID string) bool {
	return s.SendPush(ctx, token,
		"Lời mời kết bạn mới",
		requester.Name+" muốn kết bạn với bạn",
		map[string]string{
			"type":          "friend_request",
			"requestId":     requestID,
			"requesterId":   requester.ID,
			"requesterName": requester.Name,
		},
	)
}

// SendFriendAcceptedPush notifies the original requester that their
// request was accepted.
func (s *PushService) SendFriendAcceptedPush(ctx context.Context, token string, accepter *models.User) bool {
	return s.SendPush(ctx, token,
		"Lời mời kết bạn đã được chấp nhận",
		accepter.Name+" đã chấp nhận lời mời kết bạn của bạn",
		map[string]string{
			"type":       "friend_request_accepted",
			"friendId":   accepter.ID,
			"friendName": accepter.Name,
		},
	)
}

// SendMessagePush notifies a recipient of a new direct message.
func (s *PushService) SendMessagePush(ctx context.Context, token string, sender *models.User, messageID, preview string) bool {
	return s.SendPush(ctx, token,
		sender.Name,
		preview,
		map[string]string{
			"type":      "message",
			"messageId": messageID,
			"senderId":  sender.ID,
		},
	)
}

func truncateToken(token string) string {
	if len(token) > 20 {
		return token[:20] + "..."
	}
	return token
}

func intPtr(v int) *int {
	return &v
}
