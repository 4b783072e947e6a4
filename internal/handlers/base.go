package handlers

import (
	"errors"
	"net/http"

	"redditclone/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var kindStatus = map[models.ErrorKind]int{
	models.KindValidation:           http.StatusBadRequest,
	models.KindNotFound:             http.StatusNotFound,
	models.KindConflict:             http.StatusConflict,
	models.KindAuthenticationFailed: http.StatusUnauthorized,
	models.KindNoSuchSession:        http.StatusUnauthorized,
	models.KindInvalidResetToken:    http.StatusBadRequest,
	models.KindUnknownEmail:         http.StatusNotFound,
	models.KindNotificationFailed:   http.StatusBadGateway,
	models.KindForbidden:            http.StatusForbidden,
}

// respondError writes err as JSON. Domain errors carry their own message;
// anything else is logged and reported as a 500 without details.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	kind := models.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": publicMessage(err), "kind": kind})
}

func publicMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "kind": models.KindValidation})
}
