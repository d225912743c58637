package controllers

import (
	"github.com/gin-gonic/gin"

	"gogo-api/middleware"
	"gogo-api/repositories"
	"gogo-api/utils"
)

type UserController struct {
	users *repositories.UserRepository
}

func NewUserController(users *repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

// List returns everyone else's public profile, for the find-friends
// screen.
func (uc *UserController) List(c *gin.Context) {
	users, err := uc.users.List(middleware.UserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	profiles := make([]interface{}, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}

	utils.OK(c, "", gin.H{"users": profiles, "count": len(profiles)})
}

// GetUser returns another user's public profile.
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.users.FindByID(c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.OK(c, "", gin.H{"user": user.Public()})
}

type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
}

// UpdateProfile patches profile fields. Users may only update their
// own record.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid profile data")
		return
	}

	if c.Param("id") != middleware.UserID(c) {
		utils.Forbidden(c, "Cannot update another user's profile")
		return
	}

	user, err := uc.users.FindByID(middleware.UserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			utils.BadRequest(c, "Name cannot be empty")
			return
		}
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}

	if err := uc.users.Save(user); err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Profile updated", gin.H{"user": user})
}

type FCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// UpdateFCMToken stores the device push token for the caller.
func (uc *UserController) UpdateFCMToken(c *gin.Context) {
	var req FCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Token is required")
		return
	}

	if err := uc.users.SetFCMToken(middleware.UserID(c), &req.Token); err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "FCM token updated", nil)
}
