package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/metrics"
	"github.com/malabro/eshop-backend/internal/services/preparation"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
)

type PreparationHandler struct {
	Reports ReportGenerator
}

func NewPreparationHandler(reports ReportGenerator) *PreparationHandler {
	return &PreparationHandler{Reports: reports}
}

// parseRange rejects malformed dates before any data access.
func parseRange(c *gin.Context) (preparation.DateRange, bool) {
	rng, err := preparation.ParseDateRange(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		var dateErr *preparation.DateError
		if errors.As(err, &dateErr) {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse(dateErr.Error()))
		} else {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid date range"))
		}
		return preparation.DateRange{}, false
	}
	return rng, true
}

// Summary returns the delivery-preparation report as the bare response body.
func (h *PreparationHandler) Summary(c *gin.Context) {
	rng, ok := parseRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	report, err := h.Reports.Generate(ctx, rng)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate preparation summary")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Error generating preparation summary"))
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export renders the same report as a downloadable XLSX workbook or PDF pick list.
func (h *PreparationHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", preparation.FormatXLSX))
	if format != preparation.FormatXLSX && format != preparation.FormatPDF {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Unsupported export format, use xlsx or pdf"))
		return
	}
	rng, ok := parseRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	report, err := h.Reports.Generate(ctx, rng)
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError)
		logrus.WithError(err).Error("Failed to generate preparation summary for export")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Error generating preparation summary"))
		return
	}

	data, contentType, err := preparation.Export(report, format)
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError)
		logrus.WithError(err).WithField("format", format).Error("Failed to render preparation export")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to export preparation summary"))
		return
	}
	metrics.ObserveExport(format, metrics.ResultSuccess)

	filename := fmt.Sprintf("preparation-%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
