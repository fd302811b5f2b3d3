package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PreparationReport groups paid orders by product for delivery preparation.
type PreparationReport struct {
	Summary   PreparationSummary   `json:"summary"`
	Products  []PreparationProduct `json:"products"`
	DateRange PreparationDateRange `json:"date_range"`
}

type PreparationSummary struct {
	TotalPaidOrders     int       `json:"total_paid_orders"`
	TotalUniqueProducts int       `json:"total_unique_products"`
	TotalRevenue        float64   `json:"total_revenue"`
	LastUpdated         time.Time `json:"last_updated"`
}

type PreparationProduct struct {
	ProductID       primitive.ObjectID      `json:"product_id"`
	ProductName     string                  `json:"product_name"`
	TotalQuantity   int                     `json:"total_quantity"`
	Unit            *string                 `json:"unit"`
	OrderCount      int                     `json:"order_count"`
	UniqueCustomers int                     `json:"unique_customers"`
	Orders          []PreparationOccurrence `json:"orders"`
}

type PreparationOccurrence struct {
	OrderID        primitive.ObjectID `json:"order_id"`
	OrderReference string             `json:"order_reference"`
	CustomerName   string             `json:"customer_name"`
	Quantity       int                `json:"quantity"`
	CreatedAt      time.Time          `json:"created_at"`
}

// PreparationDateRange echoes the filter that was applied, as YYYY-MM-DD strings.
type PreparationDateRange struct {
	DateFrom *string `json:"date_from"`
	DateTo   *string `json:"date_to"`
}
