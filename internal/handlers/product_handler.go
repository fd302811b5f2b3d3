package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductHandler struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Units      repository.UnitRepository
	Ledger     repository.LedgerRepository
}

func NewProductHandler(products repository.ProductRepository, categories repository.CategoryRepository, units repository.UnitRepository, ledger repository.LedgerRepository) *ProductHandler {
	return &ProductHandler{Products: products, Categories: categories, Units: units, Ledger: ledger}
}

// ListProducts returns active products. Admins may pass include_inactive=true.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	skip, limit := pagination(c, 100, 100)
	filter := models.ProductFilter{
		ActiveOnly: !(isAdmin(c) && c.Query("include_inactive") == "true"),
		Search:     c.Query("search"),
		Skip:       skip,
		Limit:      limit,
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid category ID"))
			return
		}
		filter.CategoryID = &id
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products, total, err := h.Products.ListProducts(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch products"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Products fetched successfully", gin.H{
		"products": products,
		"total":    total,
		"skip":     skip,
		"limit":    limit,
	}))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "product")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	product, err := h.Products.GetProduct(ctx, id)
	if err != nil || (!product.IsActive && !isAdmin(c)) {
		if err == nil || errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Product not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch product"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Product fetched successfully", gin.H{"product": product}))
}

// checkReferences verifies that the category and unit exist, writing a 400 if not.
func (h *ProductHandler) checkReferences(ctx context.Context, c *gin.Context, categoryID, unitID *primitive.ObjectID) bool {
	if categoryID != nil {
		if _, err := h.Categories.GetCategory(ctx, *categoryID); err != nil {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Category not found"))
			return false
		}
	}
	if unitID != nil {
		if _, err := h.Units.GetUnit(ctx, *unitID); err != nil {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Unit of measure not found"))
			return false
		}
	}
	return true
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input models.CreateProductInput
	if !bindJSON(c, &input) {
		return
	}
	categoryID, _ := primitive.ObjectIDFromHex(input.CategoryID)
	unitID, _ := primitive.ObjectIDFromHex(input.UnitOfMeasureID)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if !h.checkReferences(ctx, c, &categoryID, &unitID) {
		return
	}

	product := models.Product{
		Name:              input.Name,
		Description:       input.Description,
		Price:             input.Price,
		ImageURL:          input.ImageURL,
		StockQuantity:     input.StockQuantity,
		LowStockThreshold: models.DefaultLowStockThreshold,
		IsActive:          true,
		CategoryID:        categoryID,
		UnitOfMeasureID:   unitID,
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	created, err := h.Products.CreateProduct(ctx, product, currentUserID(c))
	if err != nil {
		logrus.WithError(err).Error("Failed to create product")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create product"))
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Product created successfully", gin.H{"product": created}))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "product")
	if !ok {
		return
	}
	var input models.UpdateProductInput
	if !bindJSON(c, &input) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	current, err := h.Products.GetProduct(ctx, id)
	if err != nil {
		respondRepoError(c, err, "product")
		return
	}

	set := bson.M{}
	var categoryID, unitID *primitive.ObjectID
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.ImageURL != nil {
		set["imageUrl"] = *input.ImageURL
	}
	if input.LowStockThreshold != nil {
		set["lowStockThreshold"] = *input.LowStockThreshold
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}
	if input.CategoryID != nil {
		cid, _ := primitive.ObjectIDFromHex(*input.CategoryID)
		categoryID = &cid
		set["categoryId"] = cid
	}
	if input.UnitOfMeasureID != nil {
		uid, _ := primitive.ObjectIDFromHex(*input.UnitOfMeasureID)
		unitID = &uid
		set["unitOfMeasureId"] = uid
	}
	if !h.checkReferences(ctx, c, categoryID, unitID) {
		return
	}

	var stockEntry *models.InventoryLedgerEntry
	if input.StockQuantity != nil && *input.StockQuantity != current.StockQuantity {
		set["stockQuantity"] = *input.StockQuantity
		stockEntry = &models.InventoryLedgerEntry{
			ChangeType:     models.ChangeManualAdjustment,
			QuantityChange: *input.StockQuantity - current.StockQuantity,
			UserID:         currentUserID(c),
			Notes:          "Stock updated by admin",
		}
	}

	updated, err := h.Products.UpdateProduct(ctx, id, set, stockEntry)
	if err != nil {
		respondRepoError(c, err, "product")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Product updated successfully", gin.H{"product": updated}))
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "product")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Products.DeleteProduct(ctx, id); err != nil {
		respondRepoError(c, err, "product")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Product deleted successfully", nil))
}

func (h *ProductHandler) ToggleProductStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "product")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	product, err := h.Products.ToggleProductStatus(ctx, id)
	if err != nil {
		respondRepoError(c, err, "product")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Product status updated", gin.H{"product": product}))
}

func (h *ProductHandler) GetProductLedger(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "product")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Products.GetProduct(ctx, id); err != nil {
		respondRepoError(c, err, "product")
		return
	}
	entries, err := h.Ledger.ListProductLedger(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch ledger"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Ledger fetched successfully", gin.H{"entries": entries}))
}
