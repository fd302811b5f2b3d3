package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPaid       OrderStatus = "paid"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

const (
	DefaultPaymentMethod   = "wave_qr"
	DefaultShippingCountry = "Sénégal"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem is embedded in its order. ProductPrice is the unit price at checkout
// and is never rewritten afterwards.
type OrderItem struct {
	ProductID    primitive.ObjectID `bson:"productId" json:"product_id"`
	ProductName  string             `bson:"productName" json:"product_name"`
	ProductPrice float64            `bson:"productPrice" json:"product_price"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	Subtotal     float64            `bson:"subtotal" json:"subtotal"`
}

type Order struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderReference string              `bson:"orderReference" json:"order_reference"`
	UserID         *primitive.ObjectID `bson:"userId,omitempty" json:"user_id,omitempty"`

	CustomerName  string `bson:"customerName" json:"customer_name"`
	CustomerEmail string `bson:"customerEmail" json:"customer_email"`
	CustomerPhone string `bson:"customerPhone" json:"customer_phone"`

	ShippingAddress string `bson:"shippingAddress" json:"shipping_address"`
	ShippingCity    string `bson:"shippingCity" json:"shipping_city"`
	ShippingCountry string `bson:"shippingCountry" json:"shipping_country"`
	BillingAddress  string `bson:"billingAddress" json:"billing_address"`
	BillingCity     string `bson:"billingCity" json:"billing_city"`
	BillingCountry  string `bson:"billingCountry" json:"billing_country"`

	Items       []OrderItem `bson:"items" json:"items"`
	TotalAmount float64     `bson:"totalAmount" json:"total_amount"`
	Status      OrderStatus `bson:"status" json:"status"`

	PaymentMethod      string     `bson:"paymentMethod" json:"payment_method"`
	PaymentID          string     `bson:"paymentId,omitempty" json:"payment_id,omitempty"`
	PaymentConfirmedAt *time.Time `bson:"paymentConfirmedAt,omitempty" json:"payment_confirmed_at,omitempty"`
	PaymentNotes       string     `bson:"paymentNotes,omitempty" json:"payment_notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

type OrderItemInput struct {
	ProductID    string  `json:"product_id" validate:"required,len=24,hexadecimal"`
	Quantity     int     `json:"quantity" validate:"gt=0"`
	ProductPrice float64 `json:"product_price" validate:"gt=0"`
}

type CreateOrderInput struct {
	CustomerName    string           `json:"customer_name" validate:"required,min=2,max=120"`
	CustomerEmail   string           `json:"customer_email" validate:"required,email"`
	CustomerPhone   string           `json:"customer_phone" validate:"required,min=6,max=30"`
	ShippingAddress string           `json:"shipping_address" validate:"required"`
	ShippingCity    string           `json:"shipping_city" validate:"required"`
	ShippingCountry string           `json:"shipping_country"`
	BillingAddress  string           `json:"billing_address"`
	BillingCity     string           `json:"billing_city"`
	BillingCountry  string           `json:"billing_country"`
	PaymentMethod   string           `json:"payment_method"`
	TotalAmount     float64          `json:"total_amount" validate:"gt=0"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderStatusInput struct {
	Status       OrderStatus `json:"status" binding:"required"`
	PaymentNotes string      `json:"payment_notes"`
}

type OrderListFilter struct {
	Status *OrderStatus
	Skip   int64
	Limit  int64
}

type DashboardStats struct {
	TotalOrders     int64   `json:"total_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	CompletedOrders int64   `json:"completed_orders"`
	TotalUsers      int64   `json:"total_users"`
	TotalRevenue    float64 `json:"total_revenue"`
	RecentOrders    []Order `json:"recent_orders"`
}
