package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the back-office endpoints. Every route is mounted behind
// AdminMiddleware.
type AdminHandler struct {
	Orders repository.OrderRepository
	Users  repository.UserRepository
}

func NewAdminHandler(orders repository.OrderRepository, users repository.UserRepository) *AdminHandler {
	return &AdminHandler{Orders: orders, Users: users}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.Orders.OrderStats(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to compute order stats")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch dashboard"))
		return
	}
	if stats.TotalUsers, err = h.Users.CountUsers(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch dashboard"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Dashboard fetched successfully", gin.H{"stats": stats}))
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	skip, limit := pagination(c, 50, 200)
	filter := models.OrderListFilter{Skip: skip, Limit: limit}
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid order status"))
			return
		}
		filter.Status = &status
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, total, err := h.Orders.ListOrders(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch orders"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Orders fetched successfully", gin.H{
		"orders": orders,
		"total":  total,
		"skip":   skip,
		"limit":  limit,
	}))
}

func (h *AdminHandler) PendingOrders(c *gin.Context) {
	status := models.StatusPending
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, total, err := h.Orders.ListOrders(ctx, models.OrderListFilter{Status: &status, Limit: 200})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch orders"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Pending orders fetched successfully", gin.H{"orders": orders, "total": total}))
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
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

// UpdateOrderStatus moves an order to any valid status. Marking it paid stamps
// the payment confirmation time.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "order")
	if !ok {
		return
	}
	var input models.UpdateOrderStatusInput
	if !bindJSON(c, &input) {
		return
	}
	if !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid order status"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.Orders.UpdateOrderStatus(ctx, id, input.Status, input.PaymentNotes)
	if err != nil {
		respondRepoError(c, err, "Order")
		return
	}
	logrus.WithFields(logrus.Fields{
		"orderId": id.Hex(),
		"status":  input.Status,
		"adminId": c.GetString("userId"),
	}).Info("Order status updated")
	c.JSON(http.StatusOK, utils.SuccessResponse("Order status updated", gin.H{"order": order}))
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	skip, limit := pagination(c, 100, 500)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	users, err := h.Users.ListUsers(ctx, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch users"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Users fetched successfully", gin.H{"users": users}))
}

func (h *AdminHandler) SetUserActive(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "user")
	if !ok {
		return
	}
	var input models.SetUserActiveInput
	if !bindJSON(c, &input) {
		return
	}
	if input.IsActive == nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("is_active is required"))
		return
	}
	if !*input.IsActive && c.GetString("userId") == id.Hex() {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("You cannot deactivate your own account"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.Users.SetUserActive(ctx, id, *input.IsActive)
	if err != nil {
		respondRepoError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("User updated successfully", gin.H{"user": user}))
}
