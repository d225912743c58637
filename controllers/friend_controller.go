package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"gogo-api/config"
	"gogo-api/logger"
	"gogo-api/middleware"
	"gogo-api/models"
	"gogo-api/realtime"
	"gogo-api/repositories"
	"gogo-api/services"
	"gogo-api/utils"
)

// FriendController exposes the friendship lifecycle. Push and socket
// notifications are fire-and-forget: they never affect the response.
type FriendController struct {
	friendService *services.FriendService
	users         *repositories.UserRepository
	pushService   *services.PushService
	hub           *realtime.Hub
	cfg           *config.Config
}

func NewFriendController(friendService *services.FriendService, users *repositories.UserRepository, pushService *services.PushService, hub *realtime.Hub, cfg *config.Config) *FriendController {
	return &FriendController{
		friendService: friendService,
		users:         users,
		pushService:   pushService,
		hub:           hub,
		cfg:           cfg,
	}
}

type FriendRequestBody struct {
	RecipientID string `json:"recipient_id"`
}

// SendRequest creates (or revives, or auto-accepts) a friend request.
func (fc *FriendController) SendRequest(c *gin.Context) {
	var req FriendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Recipient ID is required")
		return
	}

	fc.sendRequestTo(c, req.RecipientID)
}

type ScanRequest struct {
	UserID string `json:"user_id"`
}

// AddByScan handles a scanned QR code, which carries the target user id.
func (fc *FriendController) AddByScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "User ID is required")
		return
	}
	fc.sendRequestTo(c, req.UserID)
}

func (fc *FriendController) sendRequestTo(c *gin.Context, recipientID string) {
	requesterID := middleware.UserID(c)

	friend, outcome, err := fc.friendService.SendRequest(requesterID, recipientID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	go fc.notifyRequestOutcome(requesterID, friend, outcome)

	switch outcome {
	case services.OutcomeAutoAccepted:
		utils.OK(c, "Friend request accepted", gin.H{"friend": friend, "status": friend.Status})
	case services.OutcomeRevived:
		utils.OK(c, "Friend request sent", gin.H{"friend": friend, "status": friend.Status})
	default:
		utils.Created(c, "Friend request sent", gin.H{"friend": friend, "status": friend.Status})
	}
}

// notifyRequestOutcome fans out pushes and socket events for a
// send-request transition. Runs detached from the request.
func (fc *FriendController) notifyRequestOutcome(requesterID string, friend *models.Friend, outcome services.RequestOutcome) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	requester, err := fc.users.FindByID(requesterID)
	if err != nil || requester == nil {
		logger.Error("Failed to load requester for notification", "error", err, "userId", requesterID)
		return
	}

	switch outcome {
	case services.OutcomeRequested, services.OutcomeRevived:
		recipientID := friend.OtherParty(requesterID)
		fc.hub.EmitToUser(recipientID, realtime.EventFriendRequestReceived, map[string]interface{}{
			"request_id": friend.ID,
			"requester":  requester.Public(),
		})

		recipient, err := fc.users.FindByID(recipientID)
		if err != nil || recipient == nil || recipient.FCMToken == nil {
			return
		}
		fc.pushService.SendFriendRequestPush(ctx, *recipient.FCMToken, requester, friend.ID)

	case services.OutcomeAutoAccepted:
		// The caller requested back: the other party is the original
		// requester, who gets the acceptance notification.
		otherID := friend.OtherParty(requesterID)
		payload := map[string]interface{}{
			"friendship_id": friend.ID,
			"friend":        requester.Public(),
		}
		fc.hub.EmitToUser(otherID, realtime.EventFriendRequestAccepted, payload)
		fc.hub.EmitToUser(otherID, realtime.EventFriendAdded, payload)

		other, err := fc.users.FindByID(otherID)
		if err != nil || other == nil {
			return
		}
		fc.hub.EmitToUser(requesterID, realtime.EventFriendAdded, map[string]interface{}{
			"friendship_id": friend.ID,
			"friend":        other.Public(),
		})
		if other.FCMToken != nil {
			fc.pushService.SendFriendAcceptedPush(ctx, *other.FCMToken, requester)
		}
	}
}

// Accept approves a pending request addressed to the caller.
func (fc *FriendController) Accept(c *gin.Context) {
	userID := middleware.UserID(c)

	friend, err := fc.friendService.Accept(c.Param("id"), userID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	go fc.notifyAccepted(userID, friend)

	utils.OK(c, "Friend request accepted", gin.H{"friend": friend})
}

func (fc *FriendController) notifyAccepted(accepterID string, friend *models.Friend) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	accepter, err := fc.users.FindByID(accepterID)
	if err != nil || accepter == nil {
		logger.Error("Failed to load accepter for notification", "error", err, "userId", accepterID)
		return
	}

	requesterID := friend.OtherParty(accepterID)
	payload := map[string]interface{}{
		"friendship_id": friend.ID,
		"friend":        accepter.Public(),
	}
	fc.hub.EmitToUser(requesterID, realtime.EventFriendRequestAccepted, payload)
	fc.hub.EmitToUser(requesterID, realtime.EventFriendAdded, payload)

	requester, err := fc.users.FindByID(requesterID)
	if err != nil || requester == nil {
		return
	}
	fc.hub.EmitToUser(accepterID, realtime.EventFriendAdded, map[string]interface{}{
		"friendship_id": friend.ID,
		"friend":        requester.Public(),
	})
	if requester.FCMToken != nil {
		fc.pushService.SendFriendAcceptedPush(ctx, *requester.FCMToken, accepter)
	}
}

// Reject declines a pending request. No notification goes out.
func (fc *FriendController) Reject(c *gin.Context) {
	friend, err := fc.friendService.Reject(c.Param("id"), middleware.UserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Friend request rejected", gin.H{"friend": friend})
}

// Unfriend removes an accepted friendship; both sides are told.
func (fc *FriendController) Unfriend(c *gin.Context) {
	userID := middleware.UserID(c)

	friend, err := fc.friendService.Unfriend(c.Param("id"), userID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	go func() {
		payload := map[string]interface{}{"friendship_id": friend.ID}
		fc.hub.EmitToUser(friend.RequesterID, realtime.EventFriendRemoved, payload)
		fc.hub.EmitToUser(friend.RecipientID, realtime.EventFriendRemoved, payload)
	}()

	utils.OK(c, "Friend removed", nil)
}

// ListFriends returns the caller's accepted friendships.
func (fc *FriendController) ListFriends(c *gin.Context) {
	friends, err := fc.friendService.ListFriends(middleware.UserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "", gin.H{"friends": friends, "count": len(friends)})
}

// ListRequests returns pending requests addressed to the caller.
func (fc *FriendController) ListRequests(c *gin.Context) {
	requests, err := fc.friendService.ListPendingRequests(middleware.UserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	type pendingRequest struct {
		ID        string               `json:"id"`
		Requester models.PublicProfile `json:"requester"`
		CreatedAt time.Time            `json:"created_at"`
	}

	out := make([]pendingRequest, 0, len(requests))
	for i := range requests {
		out = append(out, pendingRequest{
			ID:        requests[i].ID,
			Requester: requests[i].Requester.Public(),
			CreatedAt: requests[i].CreatedAt,
		})
	}

	utils.OK(c, "", gin.H{"requests": out, "count": len(out)})
}

// QRCode returns the link another user scans to add the caller.
func (fc *FriendController) QRCode(c *gin.Context) {
	userID := middleware.UserID(c)
	utils.OK(c, "", gin.H{
		"qr_url":  fc.cfg.FrontendURL + "/add-friend/" + userID,
		"user_id": userID,
	})
}
