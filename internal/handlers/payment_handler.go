package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stripe charges these currencies in whole units rather than cents.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

type PaymentHandler struct {
	Orders        repository.OrderRepository
	Currency      string
	WebhookSecret string
}

func NewPaymentHandler(orders repository.OrderRepository, secretKey, webhookSecret, currency string) *PaymentHandler {
	stripe.Key = secretKey
	return &PaymentHandler{
		Orders:        orders,
		Currency:      strings.ToLower(currency),
		WebhookSecret: strings.TrimSpace(webhookSecret),
	}
}

// stripeAmount converts an order total to Stripe's smallest currency unit.
func stripeAmount(total float64, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return int64(math.Round(total))
	}
	return int64(math.Round(total * 100))
}

func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req struct {
		OrderID string `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request"))
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid order ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.Orders.GetOrderByID(ctx, orderID)
	if err != nil {
		respondRepoError(c, err, "Order")
		return
	}
	if order.Status != models.StatusPending {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Order is not awaiting payment"))
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(stripeAmount(order.TotalAmount, h.Currency)),
		Currency: stripe.String(h.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"orderId":        req.OrderID,
			"orderReference": order.OrderReference,
		},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		logrus.WithError(err).WithField("orderId", req.OrderID).Error("Stripe payment intent failed")
		c.JSON(http.StatusBadGateway, utils.ErrorResponse(fmt.Sprintf("Stripe error: %v", err)))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Payment intent created", gin.H{
		"client_secret": pi.ClientSecret,
	}))
}

// HandleWebhook processes asynchronous events from Stripe. Anything that cannot
// be matched to an order is acknowledged so Stripe stops retrying.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	const maxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.ErrorResponse("Error reading request body"))
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), h.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid signature"))
		return
	}

	if event.Type != "payment_intent.succeeded" {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Error parsing webhook JSON"))
		return
	}

	orderID, err := primitive.ObjectIDFromHex(pi.Metadata["orderId"])
	if err != nil {
		logrus.WithField("paymentIntent", pi.ID).Warn("Webhook payment intent has no valid order id")
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	matched, err := h.Orders.MarkOrderPaid(ctx, orderID, pi.ID)
	if err != nil {
		logrus.WithError(err).WithField("orderId", orderID.Hex()).Error("Failed to mark order paid")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to update order in DB"))
		return
	}
	if !matched {
		logrus.WithFields(logrus.Fields{"orderId": orderID.Hex(), "paymentIntent": pi.ID}).
			Warn("Webhook payment ignored: order unknown or no longer pending")
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
