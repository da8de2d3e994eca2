package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

// PaymentInput records a payment against one of the caller's orders.
type PaymentInput struct {
	OrderID uuid.UUID
	Amount  decimal.Decimal
	Method  models.PaymentMethod
}

// PaymentService records payments. It does no reconciliation.
type PaymentService struct {
	store repository.Store
	now   func() time.Time
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(store repository.Store) *PaymentService {
	return &PaymentService{store: store, now: time.Now}
}

func (s *PaymentService) Create(ctx context.Context, userID uuid.UUID, input PaymentInput) (models.Payment, error) {
	fields := map[string]string{}
	if !input.Amount.IsPositive() {
		fields["amount"] = "ensure this value is greater than 0"
	}
	if !input.Method.Valid() {
		fields["payment_method"] = fmt.Sprintf("%q is not a valid choice", input.Method)
	}
	if len(fields) > 0 {
		return models.Payment{}, apperr.Validation("invalid payment", fields)
	}

	payment := models.Payment{
		UserID:      userID,
		OrderID:     input.OrderID,
		Amount:      input.Amount.Round(2),
		Method:      input.Method,
		Status:      models.PaymentStatusPending,
		PaymentDate: s.now(),
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Orders().Get(ctx, userID, input.OrderID); err != nil {
			return notFound(err, "order")
		}
		return tx.Payments().Create(ctx, &payment)
	})
	if err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

func (s *PaymentService) List(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	return s.store.Payments().ListByUser(ctx, userID)
}
