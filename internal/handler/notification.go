package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nnish16/Tourist-Safety/internal/notify"
	"go.uber.org/zap"
)

// NotificationHandler exposes the ephemeral notification list
type NotificationHandler struct {
	notifier *notify.Service
	logger   *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifier *notify.Service, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// List returns current notifications, most recent first
func (h *NotificationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.notifier.List())
}

// Dismiss removes a notification. Dismissing an already expired or
// unknown notification succeeds.
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	h.notifier.Dismiss(c.Param("id"))
	c.Status(http.StatusNoContent)
}
