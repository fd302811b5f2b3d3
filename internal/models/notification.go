package models

type PaymentStartedInput struct {
	OrderReference string  `json:"order_reference" validate:"required"`
	CustomerName   string  `json:"customer_name" validate:"required"`
	CustomerEmail  string  `json:"customer_email" validate:"required,email"`
	CustomerPhone  string  `json:"customer_phone"`
	TotalAmount    float64 `json:"total_amount" validate:"gte=0"`
	PaymentMethod  string  `json:"payment_method"`
}

type TestEmailInput struct {
	To string `json:"to" validate:"required,email"`
}

type AssistantQuestion struct {
	Question string `json:"question" validate:"required,min=2,max=2000"`
}
