package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/internal/services/inventory"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
)

type InventoryHandler struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Ledger     repository.LedgerRepository
}

func NewInventoryHandler(products repository.ProductRepository, categories repository.CategoryRepository, ledger repository.LedgerRepository) *InventoryHandler {
	return &InventoryHandler{Products: products, Categories: categories, Ledger: ledger}
}

func (h *InventoryHandler) load(ctx context.Context, c *gin.Context) ([]models.Product, []models.Category, bool) {
	products, err := h.Products.ListAllProducts(ctx, false)
	if err != nil {
		logrus.WithError(err).Error("Failed to load products for inventory report")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to load inventory"))
		return nil, nil, false
	}
	categories, err := h.Categories.ListCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to load categories"))
		return nil, nil, false
	}
	return products, categories, true
}

func (h *InventoryHandler) Summary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products, categories, ok := h.load(ctx, c)
	if !ok {
		return
	}
	summary := inventory.Summary(products, categories, time.Now())
	c.JSON(http.StatusOK, utils.SuccessResponse("Inventory summary generated", gin.H{"summary": summary}))
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products, categories, ok := h.load(ctx, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Low stock products fetched", gin.H{"products": inventory.LowStock(products, categories)}))
}

func (h *InventoryHandler) OutOfStock(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products, categories, ok := h.load(ctx, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Out of stock products fetched", gin.H{"products": inventory.OutOfStock(products, categories)}))
}

// Movements lists ledger entries from the last `days` days (default 7, max 365).
func (h *InventoryHandler) Movements(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 365 {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("days must be between 1 and 365"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	since := time.Now().UTC().AddDate(0, 0, -days)
	entries, err := h.Ledger.ListMovementsSince(ctx, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch stock movements"))
		return
	}
	products, err := h.Products.ListAllProducts(ctx, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to load inventory"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Stock movements fetched", gin.H{
		"days":      days,
		"movements": inventory.Movements(entries, products),
	}))
}

func (h *InventoryHandler) StockLevels(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products, err := h.Products.ListAllProducts(ctx, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to load inventory"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Stock levels fetched", gin.H{"levels": inventory.StockLevels(products)}))
}

func (h *InventoryHandler) TopProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("limit must be between 1 and 100"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products, err := h.Products.ListAllProducts(ctx, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to load inventory"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Top products fetched", gin.H{"products": inventory.TopByStockValue(products, limit)}))
}
