package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/metrics"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const priceTolerance = 0.01

type OrderHandler struct {
	Orders   repository.OrderRepository
	Products repository.ProductRepository
	Notifier Notifier
}

func NewOrderHandler(orders repository.OrderRepository, products repository.ProductRepository, notifier Notifier) *OrderHandler {
	return &OrderHandler{Orders: orders, Products: products, Notifier: notifier}
}

// CreateOrder handles checkout for guests and signed-in customers. Prices are
// checked against the catalog and snapshotted onto the order.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input models.CreateOrderInput
	if !bindJSON(c, &input) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	items := make([]models.OrderItem, 0, len(input.Items))
	total := decimal.Zero
	for _, in := range input.Items {
		productID, _ := primitive.ObjectIDFromHex(in.ProductID)
		product, err := h.Products.GetProduct(ctx, productID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && !product.IsActive) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse(fmt.Sprintf("Product %s not found", in.ProductID)))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch product"))
			return
		}
		if math.Abs(product.Price-in.ProductPrice) > priceTolerance {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse(fmt.Sprintf("Price mismatch for %s", product.Name)))
			return
		}
		if product.StockQuantity < in.Quantity {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse(fmt.Sprintf("Insufficient stock for %s", product.Name)))
			return
		}
		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductPrice: product.Price,
			Quantity:     in.Quantity,
			Subtotal:     product.Price * float64(in.Quantity),
		})
		total = total.Add(decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(in.Quantity))))
	}

	// The stored total is always the catalog total; the client's figure is only checked.
	totalAmount := total.InexactFloat64()
	if math.Abs(totalAmount-input.TotalAmount) > priceTolerance {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(fmt.Sprintf("Total mismatch: expected %s", total.StringFixed(2))))
		return
	}

	reference, err := utils.GenerateOrderReference()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create order reference"))
		return
	}

	order := models.Order{
		OrderReference:  reference,
		UserID:          currentUserID(c),
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		ShippingCountry: firstNonEmpty(input.ShippingCountry, models.DefaultShippingCountry),
		BillingAddress:  firstNonEmpty(input.BillingAddress, input.ShippingAddress),
		BillingCity:     firstNonEmpty(input.BillingCity, input.ShippingCity),
		BillingCountry:  firstNonEmpty(input.BillingCountry, input.ShippingCountry, models.DefaultShippingCountry),
		Items:           items,
		TotalAmount:     totalAmount,
		Status:          models.StatusPending,
		PaymentMethod:   firstNonEmpty(input.PaymentMethod, models.DefaultPaymentMethod),
	}

	placed, err := h.Orders.PlaceOrder(ctx, order)
	if errors.Is(err, repository.ErrInsufficientStock) {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to place order")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create order"))
		return
	}

	metrics.OrderCreated()
	h.Notifier.OrderCreated(placed)

	logrus.WithFields(logrus.Fields{"reference": placed.OrderReference, "total": placed.TotalAmount}).Info("Order created")
	c.JSON(http.StatusCreated, utils.SuccessResponse("Order placed successfully", gin.H{"order": placed}))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "order")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.Orders.GetOrderByID(ctx, id)
	if err != nil {
		respondRepoError(c, err, "Order")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Order fetched successfully", gin.H{"order": order}))
}

func (h *OrderHandler) GetOrderByReference(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.Orders.GetOrderByReference(ctx, strings.ToUpper(c.Param("reference")))
	if err != nil {
		respondRepoError(c, err, "Order")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Order fetched successfully", gin.H{"order": order}))
}

// ListMyOrders returns the order history of the signed-in customer.
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or missing token"))
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.Orders.ListOrdersByUser(ctx, *userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch orders"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Orders fetched successfully", gin.H{"orders": orders}))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
