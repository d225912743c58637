package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gogo-api/apperrors"
	"gogo-api/logger"
)

// All API responses share the envelope {success, message?, ...data}:
// data keys are merged into the top level rather than nested.

func send(c *gin.Context, status int, success bool, message string, data gin.H) {
	body := gin.H{"success": success}
	if message != "" {
		body["message"] = message
	}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

func OK(c *gin.Context, message string, data gin.H) {
	send(c, http.StatusOK, true, message, data)
}

func Created(c *gin.Context, message string, data gin.H) {
	send(c, http.StatusCreated, true, message, data)
}

func BadRequest(c *gin.Context, message string) {
	send(c, http.StatusBadRequest, false, message, nil)
}

func Unauthorized(c *gin.Context, message string) {
	send(c, http.StatusUnauthorized, false, message, nil)
}

func Forbidden(c *gin.Context, message string) {
	send(c, http.StatusForbidden, false, message, nil)
}

func NotFound(c *gin.Context, message string) {
	send(c, http.StatusNotFound, false, message, nil)
}

func ServerError(c *gin.Context, message string) {
	send(c, http.StatusInternalServerError, false, message, nil)
}

// ValidationError reports field-level validation failures.
func ValidationError(c *gin.Context, message string, errs []string) {
	send(c, http.StatusBadRequest, false, message, gin.H{"errors": errs})
}

// Error maps an application error to its status code and envelope.
// Internal errors are logged and elided to a generic message.
func Error(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request error", "error", err, "path", c.Request.URL.Path)
	}
	send(c, status, false, apperrors.UserMessage(err), nil)
}
