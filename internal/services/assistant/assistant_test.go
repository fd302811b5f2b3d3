package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/malabro/eshop-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildPromptIncludesShopFigures(t *testing.T) {
	snapshot := Snapshot{
		Dashboard: models.DashboardStats{TotalOrders: 12, PendingOrders: 3, CompletedOrders: 8, TotalRevenue: 45000, TotalUsers: 9},
		Inventory: models.InventorySummary{TotalProducts: 20, TotalStockValue: 300000, LowStockCount: 2, OutOfStockCount: 1},
		LowStock:  []models.StockAlert{{ProductName: "Onions", StockQuantity: 4, LowStockThreshold: 10}},
		PendingOrders: []models.Order{{
			OrderReference: "MALABRO-PEND01",
			CustomerName:   "Awa",
			TotalAmount:    7000,
			CreatedAt:      time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		}},
	}

	prompt := BuildPrompt("  Which products should I restock?  ", snapshot)

	assert.Contains(t, prompt, "12 total, 3 pending, 8 paid")
	assert.Contains(t, prompt, "45000 FCFA")
	assert.Contains(t, prompt, "Onions: 4 left (threshold 10)")
	assert.Contains(t, prompt, "MALABRO-PEND01 by Awa, 7000 FCFA, 2025-03-01 09:30")
	assert.Contains(t, prompt, "Question: Which products should I restock?")
}

func TestDisabledAssistant(t *testing.T) {
	_, err := Disabled{}.Ask(context.Background(), "hello", Snapshot{})
	assert.ErrorIs(t, err, ErrDisabled)
}
