// Package inventory computes stock reports from product and ledger snapshots.
package inventory

import (
	"sort"
	"time"

	"github.com/malabro/eshop-backend/internal/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stockValue(p models.Product) decimal.Decimal {
	return decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.StockQuantity)))
}

func categoryNames(categories []models.Category) map[primitive.ObjectID]string {
	names := make(map[primitive.ObjectID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

// Summary aggregates active products overall and per category.
func Summary(products []models.Product, categories []models.Category, now time.Time) models.InventorySummary {
	names := categoryNames(categories)
	summary := models.InventorySummary{CategoryStats: []models.CategoryStock{}, GeneratedAt: now.UTC()}
	total := decimal.Zero

	type catAcc struct {
		stats models.CategoryStock
		value decimal.Decimal
	}
	perCategory := map[primitive.ObjectID]*catAcc{}

	for _, p := range products {
		if !p.IsActive {
			continue
		}
		value := stockValue(p)
		summary.TotalProducts++
		summary.TotalStockQty += p.StockQuantity
		total = total.Add(value)
		if p.StockQuantity == 0 {
			summary.OutOfStockCount++
		}
		if p.IsLowStock() {
			summary.LowStockCount++
		}

		acc, ok := perCategory[p.CategoryID]
		if !ok {
			acc = &catAcc{stats: models.CategoryStock{CategoryID: p.CategoryID, CategoryName: names[p.CategoryID]}, value: decimal.Zero}
			perCategory[p.CategoryID] = acc
		}
		acc.stats.ProductCount++
		acc.stats.TotalStock += p.StockQuantity
		acc.value = acc.value.Add(value)
		if p.IsLowStock() {
			acc.stats.LowStock++
		}
	}

	summary.TotalStockValue = total.Round(2).InexactFloat64()
	for _, acc := range perCategory {
		acc.stats.StockValue = acc.value.Round(2).InexactFloat64()
		summary.CategoryStats = append(summary.CategoryStats, acc.stats)
	}
	sort.Slice(summary.CategoryStats, func(i, j int) bool {
		a, b := summary.CategoryStats[i], summary.CategoryStats[j]
		if a.StockValue != b.StockValue {
			return a.StockValue > b.StockValue
		}
		return a.CategoryName < b.CategoryName
	})
	return summary
}

func alert(p models.Product, names map[primitive.ObjectID]string) models.StockAlert {
	return models.StockAlert{
		ProductID:         p.ID,
		ProductName:       p.Name,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		Price:             p.Price,
		CategoryName:      names[p.CategoryID],
	}
}

// LowStock lists active products at or under their threshold but not empty,
// lowest stock first.
func LowStock(products []models.Product, categories []models.Category) []models.StockAlert {
	names := categoryNames(categories)
	alerts := []models.StockAlert{}
	for _, p := range products {
		if p.IsActive && p.IsLowStock() {
			alerts = append(alerts, alert(p, names))
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].StockQuantity < alerts[j].StockQuantity })
	return alerts
}

func OutOfStock(products []models.Product, categories []models.Category) []models.StockAlert {
	names := categoryNames(categories)
	alerts := []models.StockAlert{}
	for _, p := range products {
		if p.IsActive && p.StockQuantity <= 0 {
			alerts = append(alerts, alert(p, names))
		}
	}
	return alerts
}

// Movements joins ledger entries with product names, newest first.
func Movements(entries []models.InventoryLedgerEntry, products []models.Product) []models.StockMovement {
	names := make(map[primitive.ObjectID]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	movements := make([]models.StockMovement, 0, len(entries))
	for _, e := range entries {
		movements = append(movements, models.StockMovement{
			ProductID:      e.ProductID,
			ProductName:    names[e.ProductID],
			ChangeType:     e.ChangeType,
			QuantityChange: e.QuantityChange,
			NewQuantity:    e.NewQuantity,
			Notes:          e.Notes,
			CreatedAt:      e.CreatedAt,
		})
	}
	sort.SliceStable(movements, func(i, j int) bool { return movements[i].CreatedAt.After(movements[j].CreatedAt) })
	return movements
}

var stockRanges = []struct {
	label    string
	min, max int // max < 0 means unbounded
}{
	{"0", 0, 0},
	{"1-5", 1, 5},
	{"6-20", 6, 20},
	{"21-50", 21, 50},
	{"51-100", 51, 100},
	{"100+", 101, -1},
}

// StockLevels buckets active products by stock quantity.
func StockLevels(products []models.Product) []models.StockLevelBucket {
	buckets := make([]models.StockLevelBucket, len(stockRanges))
	for i, r := range stockRanges {
		buckets[i].Range = r.label
	}
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		qty := p.StockQuantity
		if qty < 0 {
			qty = 0
		}
		for i, r := range stockRanges {
			if qty >= r.min && (r.max < 0 || qty <= r.max) {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

// TopByStockValue returns the limit active products holding the most stock value.
func TopByStockValue(products []models.Product, limit int) []models.ProductStockValue {
	values := []models.ProductStockValue{}
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		values = append(values, models.ProductStockValue{
			ProductID:     p.ID,
			ProductName:   p.Name,
			StockQuantity: p.StockQuantity,
			Price:         p.Price,
			StockValue:    stockValue(p).Round(2).InexactFloat64(),
		})
	}
	sort.SliceStable(values, func(i, j int) bool { return values[i].StockValue > values[j].StockValue })
	if limit > 0 && len(values) > limit {
		values = values[:limit]
	}
	return values
}
