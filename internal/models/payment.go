package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was settled.
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

// PaymentStatusPending is the status every new payment starts in.
const PaymentStatusPending = "Pending"

// Valid reports whether the method is one of the known values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCash:
		return true
	}
	return false
}

// Payment records money received against an order.
type Payment struct {
	BaseModel
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"order_id"`
	Order       *Order          `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method      PaymentMethod   `gorm:"size:50;not null" json:"payment_method"`
	Status      string          `gorm:"size:20;not null;default:'Pending'" json:"status"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
}
