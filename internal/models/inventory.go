package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LedgerChangeType string

const (
	ChangeInitialStock     LedgerChangeType = "Initial Stock"
	ChangeSale             LedgerChangeType = "Sale"
	ChangeManualAdjustment LedgerChangeType = "Manual Adjustment"
	ChangeReturn           LedgerChangeType = "Return"
)

// InventoryLedgerEntry records one stock movement for a product.
type InventoryLedgerEntry struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProductID      primitive.ObjectID  `bson:"productId" json:"product_id"`
	ChangeType     LedgerChangeType    `bson:"changeType" json:"change_type"`
	QuantityChange int                 `bson:"quantityChange" json:"quantity_change"`
	NewQuantity    int                 `bson:"newQuantity" json:"new_quantity"`
	UserID         *primitive.ObjectID `bson:"userId,omitempty" json:"user_id,omitempty"`
	OrderID        *primitive.ObjectID `bson:"orderId,omitempty" json:"order_id,omitempty"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"created_at"`
}

type CategoryStock struct {
	CategoryID   primitive.ObjectID `json:"category_id"`
	CategoryName string             `json:"category_name"`
	ProductCount int                `json:"product_count"`
	TotalStock   int                `json:"total_stock"`
	StockValue   float64            `json:"stock_value"`
	LowStock     int                `json:"low_stock_count"`
}

type InventorySummary struct {
	TotalProducts   int             `json:"total_products"`
	TotalStockValue float64         `json:"total_stock_value"`
	TotalStockQty   int             `json:"total_stock_quantity"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	CategoryStats   []CategoryStock `json:"category_stats"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

type StockAlert struct {
	ProductID         primitive.ObjectID `json:"product_id"`
	ProductName       string             `json:"product_name"`
	StockQuantity     int                `json:"stock_quantity"`
	LowStockThreshold int                `json:"low_stock_threshold"`
	Price             float64            `json:"price"`
	CategoryName      string             `json:"category_name"`
}

type StockMovement struct {
	ProductID      primitive.ObjectID `json:"product_id"`
	ProductName    string             `json:"product_name"`
	ChangeType     LedgerChangeType   `json:"change_type"`
	QuantityChange int                `json:"quantity_change"`
	NewQuantity    int                `json:"new_quantity"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

type StockLevelBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type ProductStockValue struct {
	ProductID     primitive.ObjectID `json:"product_id"`
	ProductName   string             `json:"product_name"`
	StockQuantity int                `json:"stock_quantity"`
	Price         float64            `json:"price"`
	StockValue    float64            `json:"stock_value"`
}
