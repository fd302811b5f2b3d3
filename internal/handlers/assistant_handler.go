package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/internal/services/assistant"
	"github.com/malabro/eshop-backend/internal/services/inventory"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
)

const assistantPendingOrders = 20

type AssistantHandler struct {
	Assistant  assistant.Assistant
	Orders     repository.OrderRepository
	Users      repository.UserRepository
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
}

func NewAssistantHandler(a assistant.Assistant, orders repository.OrderRepository, users repository.UserRepository, products repository.ProductRepository, categories repository.CategoryRepository) *AssistantHandler {
	return &AssistantHandler{Assistant: a, Orders: orders, Users: users, Products: products, Categories: categories}
}

func (h *AssistantHandler) snapshot(ctx context.Context) (assistant.Snapshot, error) {
	var snap assistant.Snapshot
	stats, err := h.Orders.OrderStats(ctx)
	if err != nil {
		return snap, err
	}
	if stats.TotalUsers, err = h.Users.CountUsers(ctx); err != nil {
		return snap, err
	}
	products, err := h.Products.ListAllProducts(ctx, false)
	if err != nil {
		return snap, err
	}
	categories, err := h.Categories.ListCategories(ctx)
	if err != nil {
		return snap, err
	}
	pending := models.StatusPending
	orders, _, err := h.Orders.ListOrders(ctx, models.OrderListFilter{Status: &pending, Limit: assistantPendingOrders})
	if err != nil {
		return snap, err
	}

	snap.Dashboard = stats
	snap.Inventory = inventory.Summary(products, categories, time.Now())
	snap.LowStock = inventory.LowStock(products, categories)
	snap.PendingOrders = orders
	return snap, nil
}

// Chat answers an administrator's question from the current shop figures.
func (h *AssistantHandler) Chat(c *gin.Context) {
	var input models.AssistantQuestion
	if !bindJSON(c, &input) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	snap, err := h.snapshot(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to build assistant snapshot")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to load shop data"))
		return
	}

	answer, err := h.Assistant.Ask(ctx, input.Question, snap)
	if errors.Is(err, assistant.ErrDisabled) {
		c.JSON(http.StatusServiceUnavailable, utils.ErrorResponse("Assistant is not configured"))
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Assistant request failed")
		c.JSON(http.StatusBadGateway, utils.ErrorResponse("Assistant is unavailable"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Answer generated", gin.H{"answer": answer}))
}
