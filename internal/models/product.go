package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultLowStockThreshold = 10

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"image_url,omitempty"`

	StockQuantity     int  `bson:"stockQuantity" json:"stock_quantity"`
	LowStockThreshold int  `bson:"lowStockThreshold" json:"low_stock_threshold"`
	IsActive          bool `bson:"isActive" json:"is_active"`

	CategoryID      primitive.ObjectID `bson:"categoryId" json:"category_id"`
	UnitOfMeasureID primitive.ObjectID `bson:"unitOfMeasureId" json:"unit_of_measure_id"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

func (p Product) IsLowStock() bool {
	return p.StockQuantity > 0 && p.StockQuantity <= p.LowStockThreshold
}

type CreateProductInput struct {
	Name              string  `json:"name" validate:"required,min=2,max=200"`
	Description       string  `json:"description" validate:"max=2000"`
	Price             float64 `json:"price" validate:"gt=0"`
	ImageURL          string  `json:"image_url" validate:"omitempty,url"`
	StockQuantity     int     `json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold *int    `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	IsActive          *bool   `json:"is_active"`
	CategoryID        string  `json:"category_id" validate:"required,len=24,hexadecimal"`
	UnitOfMeasureID   string  `json:"unit_of_measure_id" validate:"required,len=24,hexadecimal"`
}

// UpdateProductInput only carries the fields the caller wants to change.
type UpdateProductInput struct {
	Name              *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Description       *string  `json:"description" validate:"omitempty,max=2000"`
	Price             *float64 `json:"price" validate:"omitempty,gt=0"`
	ImageURL          *string  `json:"image_url" validate:"omitempty,url"`
	StockQuantity     *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	LowStockThreshold *int     `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	IsActive          *bool    `json:"is_active"`
	CategoryID        *string  `json:"category_id" validate:"omitempty,len=24,hexadecimal"`
	UnitOfMeasureID   *string  `json:"unit_of_measure_id" validate:"omitempty,len=24,hexadecimal"`
}

type ProductFilter struct {
	CategoryID *primitive.ObjectID
	ActiveOnly bool
	Search     string
	Skip       int64
	Limit      int64
}
