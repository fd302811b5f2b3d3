package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/internal/services/notification"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
)

const defaultStartedPaymentMethod = "wave"

type NotificationHandler struct {
	Notifier Notifier
}

func NewNotificationHandler(notifier Notifier) *NotificationHandler {
	return &NotificationHandler{Notifier: notifier}
}

// PaymentStarted schedules the admin and customer emails and responds at once.
func (h *NotificationHandler) PaymentStarted(c *gin.Context) {
	var input models.PaymentStartedInput
	if !bindJSON(c, &input) {
		return
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = defaultStartedPaymentMethod
	}

	h.Notifier.PaymentStarted(input)

	logrus.WithField("reference", input.OrderReference).Info("Payment started notifications scheduled")
	c.JSON(http.StatusOK, utils.SuccessResponse("Notifications scheduled", gin.H{"order_reference": input.OrderReference}))
}

// TestEmail sends synchronously so the administrator sees the SMTP outcome.
func (h *NotificationHandler) TestEmail(c *gin.Context) {
	var input models.TestEmailInput
	if !bindJSON(c, &input) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := h.Notifier.SendTest(ctx, input.To); err != nil {
		if errors.Is(err, notification.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, utils.ErrorResponse("Email delivery is not configured"))
			return
		}
		logrus.WithError(err).WithField("to", input.To).Warn("Test email failed")
		c.JSON(http.StatusBadGateway, utils.ErrorResponse("Failed to send test email: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Test email sent", gin.H{"to": input.To}))
}
