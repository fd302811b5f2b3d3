// Package preparation builds the delivery-preparation report: paid orders
// grouped per product so the warehouse knows what to pick and for whom.
package preparation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/malabro/eshop-backend/internal/metrics"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderSource interface {
	ListPaidOrders(ctx context.Context, from, to *time.Time) ([]models.Order, error)
}

type UnitSource interface {
	UnitLabels(ctx context.Context, productIDs []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type Service struct {
	orders OrderSource
	units  UnitSource
	now    func() time.Time
}

func NewService(orders OrderSource, units UnitSource) *Service {
	return &Service{orders: orders, units: units, now: time.Now}
}

// Generate reads the paid orders in rng and aggregates them. The report is a
// point-in-time snapshot; nothing is written.
func (s *Service) Generate(ctx context.Context, rng DateRange) (models.PreparationReport, error) {
	start := time.Now()

	from, to := rng.Bounds()
	orders, err := s.orders.ListPaidOrders(ctx, from, to)
	if err != nil {
		metrics.ObserveReport(metrics.ResultError, time.Since(start))
		return models.PreparationReport{}, fmt.Errorf("list paid orders: %w", err)
	}

	labels, err := s.units.UnitLabels(ctx, productIDs(orders))
	if err != nil {
		metrics.ObserveReport(metrics.ResultError, time.Since(start))
		return models.PreparationReport{}, fmt.Errorf("resolve unit labels: %w", err)
	}

	report := Build(orders, rng, labels, s.now())
	metrics.ObserveReport(metrics.ResultSuccess, time.Since(start))
	return report, nil
}

type bucket struct {
	product     models.PreparationProduct
	occurrences map[primitive.ObjectID]int // order id -> index in product.Orders
	customers   map[string]struct{}
}

// Build aggregates orders into the report. Orders that are not paid or fall
// outside rng are ignored, as are repeated orders with the same id. Revenue is
// the sum of the stored order totals, never recomputed from line items.
func Build(orders []models.Order, rng DateRange, unitLabels map[primitive.ObjectID]string, now time.Time) models.PreparationReport {
	seen := make(map[primitive.ObjectID]struct{}, len(orders))
	buckets := make(map[primitive.ObjectID]*bucket)
	revenue := decimal.Zero

	for _, order := range orders {
		if order.Status != models.StatusPaid || !rng.Contains(order.CreatedAt) {
			continue
		}
		if _, dup := seen[order.ID]; dup {
			continue
		}
		seen[order.ID] = struct{}{}
		revenue = revenue.Add(decimal.NewFromFloat(order.TotalAmount))
		customer := customerKey(order)

		for _, item := range order.Items {
			b, ok := buckets[item.ProductID]
			if !ok {
				b = &bucket{
					product: models.PreparationProduct{
						ProductID:   item.ProductID,
						ProductName: item.ProductName,
						Unit:        unitLabel(unitLabels, item.ProductID),
						Orders:      []models.PreparationOccurrence{},
					},
					occurrences: make(map[primitive.ObjectID]int),
					customers:   make(map[string]struct{}),
				}
				buckets[item.ProductID] = b
			}
			if b.product.ProductName == "" {
				b.product.ProductName = item.ProductName
			}

			b.product.TotalQuantity += item.Quantity
			if idx, ok := b.occurrences[order.ID]; ok {
				b.product.Orders[idx].Quantity += item.Quantity
			} else {
				b.occurrences[order.ID] = len(b.product.Orders)
				b.product.Orders = append(b.product.Orders, models.PreparationOccurrence{
					OrderID:        order.ID,
					OrderReference: order.OrderReference,
					CustomerName:   order.CustomerName,
					Quantity:       item.Quantity,
					CreatedAt:      order.CreatedAt,
				})
			}
			b.customers[customer] = struct{}{}
		}
	}

	products := make([]models.PreparationProduct, 0, len(buckets))
	for _, b := range buckets {
		b.product.OrderCount = len(b.occurrences)
		b.product.UniqueCustomers = len(b.customers)
		sortOccurrences(b.product.Orders)
		products = append(products, b.product)
	}
	sortProducts(products)

	return models.PreparationReport{
		Summary: models.PreparationSummary{
			TotalPaidOrders:     len(seen),
			TotalUniqueProducts: len(products),
			TotalRevenue:        revenue.InexactFloat64(),
			LastUpdated:         now.UTC(),
		},
		Products:  products,
		DateRange: rng.Echo(),
	}
}

// customerKey identifies a customer by email, or by name for orders without one.
func customerKey(order models.Order) string {
	if email := strings.ToLower(strings.TrimSpace(order.CustomerEmail)); email != "" {
		return "email:" + email
	}
	return "name:" + strings.ToLower(strings.TrimSpace(order.CustomerName))
}

func unitLabel(labels map[primitive.ObjectID]string, productID primitive.ObjectID) *string {
	label, ok := labels[productID]
	if !ok || label == "" {
		return nil
	}
	return &label
}

func productIDs(orders []models.Order) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	ids := []primitive.ObjectID{}
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

// sortProducts orders by total quantity, largest first. Ties fall back to
// name and then id so identical input always gives identical output.
func sortProducts(products []models.PreparationProduct) {
	sort.Slice(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if a.TotalQuantity != b.TotalQuantity {
			return a.TotalQuantity > b.TotalQuantity
		}
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		return a.ProductID.Hex() < b.ProductID.Hex()
	})
}

// sortOccurrences puts the most recent order first.
func sortOccurrences(occurrences []models.PreparationOccurrence) {
	sort.Slice(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.OrderReference < b.OrderReference
	})
}
