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
)

type CategoryHandler struct {
	Repo repository.CategoryRepository
}

func NewCategoryHandler(repo repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{Repo: repo}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	categories, err := h.Repo.ListCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch categories"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("categories fetched successfully", gin.H{"categories": categories}))
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "category")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	category, err := h.Repo.GetCategory(ctx, id)
	if err != nil {
		respondRepoError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("category fetched successfully", gin.H{"category": category}))
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	// Role check is handled by AdminMiddleware in routes.go
	var input models.CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	category, err := h.Repo.CreateCategory(ctx, models.Category{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    active,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		c.JSON(http.StatusConflict, utils.ErrorResponse("category already exists"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to create category"))
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("category created successfully", gin.H{"category": category}))
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "category")
	if !ok {
		return
	}
	var input models.CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	category, err := h.Repo.UpdateCategory(ctx, id, input)
	if err != nil {
		respondRepoError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("category updated successfully", gin.H{"category": category}))
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "category")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.DeleteCategory(ctx, id); err != nil {
		respondRepoError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("category deleted successfully", nil))
}

// respondRepoError maps repository sentinels onto HTTP statuses.
func respondRepoError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse(what+" not found"))
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, utils.ErrorResponse(what+" already exists"))
	default:
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to process "+what))
	}
}
