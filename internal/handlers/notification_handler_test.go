package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/services/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notificationRouter(notifier *fakeNotifier) *gin.Engine {
	h := NewNotificationHandler(notifier)
	router := gin.New()
	router.POST("/payment-started", h.PaymentStarted)
	router.POST("/test-email", h.TestEmail)
	return router
}

func TestPaymentStartedSchedulesAndReturns(t *testing.T) {
	notifier := &fakeNotifier{}

	w := doJSON(notificationRouter(notifier), http.MethodPost, "/payment-started", gin.H{
		"order_reference": "MALABRO-AB12CD",
		"customer_name":   "Fatou",
		"customer_email":  "fatou@example.com",
		"total_amount":    12000,
	}, "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, notifier.payments, 1)
	assert.Equal(t, "wave", notifier.payments[0].PaymentMethod)
}

func TestPaymentStartedValidation(t *testing.T) {
	notifier := &fakeNotifier{}

	w := doJSON(notificationRouter(notifier), http.MethodPost, "/payment-started", gin.H{"customer_name": "Fatou"}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, notifier.payments)
}

func TestTestEmailReportsOutcome(t *testing.T) {
	notifier := &fakeNotifier{}
	w := doJSON(notificationRouter(notifier), http.MethodPost, "/test-email", gin.H{"to": "ops@example.com"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ops@example.com"}, notifier.testTo)

	notifier = &fakeNotifier{testErr: notification.ErrNotConfigured}
	w = doJSON(notificationRouter(notifier), http.MethodPost, "/test-email", gin.H{"to": "ops@example.com"}, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
