package handlers

import (
	"context"

	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/internal/services/preparation"
)

// Notifier schedules best-effort emails. Implementations must not block.
type Notifier interface {
	UserRegistered(user models.User)
	OrderCreated(order models.Order)
	PaymentStarted(input models.PaymentStartedInput)
	SendTest(ctx context.Context, to string) error
}

type ReportGenerator interface {
	Generate(ctx context.Context, rng preparation.DateRange) (models.PreparationReport, error)
}
