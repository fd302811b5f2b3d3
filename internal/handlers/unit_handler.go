package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
)

type UnitHandler struct {
	Repo repository.UnitRepository
}

func NewUnitHandler(repo repository.UnitRepository) *UnitHandler {
	return &UnitHandler{Repo: repo}
}

func (h *UnitHandler) ListUnits(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	units, err := h.Repo.ListUnits(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch units of measure"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("units of measure fetched successfully", gin.H{"units": units}))
}

func (h *UnitHandler) GetUnit(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "unit of measure")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	unit, err := h.Repo.GetUnit(ctx, id)
	if err != nil {
		respondRepoError(c, err, "unit of measure")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("unit of measure fetched successfully", gin.H{"unit": unit}))
}

func (h *UnitHandler) CreateUnit(c *gin.Context) {
	var input models.UnitOfMeasureInput
	if !bindJSON(c, &input) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	unit, err := h.Repo.CreateUnit(ctx, models.UnitOfMeasure{Name: input.Name, Abbreviation: input.Abbreviation})
	if err != nil {
		respondRepoError(c, err, "unit of measure")
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("unit of measure created successfully", gin.H{"unit": unit}))
}

func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "unit of measure")
	if !ok {
		return
	}
	var input models.UnitOfMeasureInput
	if !bindJSON(c, &input) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	unit, err := h.Repo.UpdateUnit(ctx, id, input)
	if err != nil {
		respondRepoError(c, err, "unit of measure")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("unit of measure updated successfully", gin.H{"unit": unit}))
}

func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "unit of measure")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.DeleteUnit(ctx, id); err != nil {
		respondRepoError(c, err, "unit of measure")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("unit of measure deleted successfully", nil))
}
