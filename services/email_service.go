package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"gopkg.in/gomail.v2"

	"gogo-api/config"
	"gogo-api/logger"
)

// EmailService sends password-reset emails over SMTP. Reset codes are
// held in memory with a short expiry; losing them on restart just
// means the user requests a new one.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer

	resetCodes map[string]ResetCode
	mutex      sync.RWMutex
}

type ResetCode struct {
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

func NewEmailService(cfg *config.Config) *EmailService {
	service := &EmailService{
		config:     cfg,
		dialer:     gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		resetCodes: make(map[string]ResetCode),
	}

	go service.cleanupExpiredCodes()

	return service
}

// Generate a random 6-digit reset code
func (es *EmailService) generateResetCode() string {
	const digits = "0123456789"
	code := make([]byte, 6)

	for i := range code {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		code[i] = digits[num.Int64()]
	}

	return string(code)
}

// SendPasswordResetEmail mails a reset code to the user and returns
// the code so callers can verify it later.
func (es *EmailService) SendPasswordResetEmail(email, name string) (string, error) {
	es.mutex.RLock()
	existing, exists := es.resetCodes[email]
	es.mutex.RUnlock()

	var code string
	if exists && !existing.Used && time.Now().Before(existing.ExpiresAt) {
		code = existing.Code
	} else {
		code = es.generateResetCode()

		es.mutex.Lock()
		es.resetCodes[email] = ResetCode{
			Code:      code,
			Email:     email,
			ExpiresAt: time.Now().Add(10 * time.Minute),
			Used:      false,
		}
		es.mutex.Unlock()
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(es.config.FromEmail, es.config.FromName))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "GoGo password reset")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Your password reset code is <b>%s</b>. It expires in 10 minutes.</p>",
		name, code))

	if err := es.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("failed to send reset email: %w", err)
	}

	logger.Info("Password reset email sent", "email", email)
	return code, nil
}

// VerifyResetCode checks a code and marks it used on success.
func (es *EmailService) VerifyResetCode(email, code string) bool {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	stored, exists := es.resetCodes[email]
	if !exists || stored.Used || time.Now().After(stored.ExpiresAt) {
		return false
	}
	if stored.Code != code {
		return false
	}

	stored.Used = true
	es.resetCodes[email] = stored
	return true
}

func (es *EmailService) cleanupExpiredCodes() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		es.mutex.Lock()
		for email, code := range es.resetCodes {
			if time.Now().After(code.ExpiresAt) {
				delete(es.resetCodes, email)
			}
		}
		es.mutex.Unlock()
	}
}
