package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gogo-api/config"
	"gogo-api/logger"
	"gogo-api/middleware"
	"gogo-api/models"
	"gogo-api/repositories"
	"gogo-api/services"
	"gogo-api/utils"
)

const tokenTTL = 30 * 24 * time.Hour

type AuthController struct {
	users        *repositories.UserRepository
	emailService *services.EmailService
	cfg          *config.Config
}

func NewAuthController(users *repositories.UserRepository, emailService *services.EmailService, cfg *config.Config) *AuthController {
	return &AuthController{
		users:        users,
		emailService: emailService,
		cfg:          cfg,
	}
}

type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Phone    *string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid registration data: "+err.Error())
		return
	}

	existing, err := ac.users.FindByEmail(req.Email)
	if err != nil {
		utils.Error(c, err)
		return
	}
	if existing != nil {
		utils.BadRequest(c, "Email already registered")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.ServerError(c, "Failed to hash password")
		return
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Phone:    req.Phone,
	}

	if err := ac.users.Create(user); err != nil {
		utils.Error(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, ac.cfg.JWTSecret, tokenTTL)
	if err != nil {
		utils.ServerError(c, "Failed to generate token")
		return
	}

	logger.Info("User registered", "userId", user.ID, "email", user.Email)
	utils.Created(c, "Registration successful", gin.H{
		"token": token,
		"user":  user,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Email and password are required")
		return
	}

	user, err := ac.users.FindByEmail(req.Email)
	if err != nil {
		utils.Error(c, err)
		return
	}
	if user == nil {
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, ac.cfg.JWTSecret, tokenTTL)
	if err != nil {
		utils.ServerError(c, "Failed to generate token")
		return
	}

	utils.OK(c, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// GetMe returns the authenticated user's own record.
func (ac *AuthController) GetMe(c *gin.Context) {
	user, err := ac.users.FindByID(middleware.UserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.OK(c, "", gin.H{"user": user})
}

// Logout clears the caller's push token so a logged-out device stops
// receiving notifications.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.users.SetFCMToken(middleware.UserID(c), nil); err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Logged out", nil)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword mails a reset code. The response never reveals whether
// the email exists.
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "A valid email is required")
		return
	}

	user, err := ac.users.FindByEmail(req.Email)
	if err != nil {
		utils.Error(c, err)
		return
	}
	if user != nil {
		if _, err := ac.emailService.SendPasswordResetEmail(user.Email, user.Name); err != nil {
			logger.Error("Failed to send password reset email", "error", err, "email", user.Email)
		}
	}

	utils.OK(c, "If the email exists, a reset code has been sent", nil)
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Email, code and new password are required")
		return
	}

	if !ac.emailService.VerifyResetCode(req.Email, req.Code) {
		utils.BadRequest(c, "Invalid or expired reset code")
		return
	}

	user, err := ac.users.FindByEmail(req.Email)
	if err != nil {
		utils.Error(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.ServerError(c, "Failed to hash password")
		return
	}

	user.Password = string(hashedPassword)
	if err := ac.users.Save(user); err != nil {
		utils.Error(c, err)
		return
	}

	logger.Info("Password reset", "userId", user.ID)
	utils.OK(c, "Password updated", nil)
}
