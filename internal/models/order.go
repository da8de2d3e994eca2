package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatusPending is the status every new order starts in.
const OrderStatusPending = "Pending"

type Order struct {
	BaseModel
	UserID            uuid.UUID   `gorm:"type:uuid;index;not null" json:"user_id"`
	Status            string      `gorm:"size:50;not null;default:'Pending'" json:"status"`
	OrderDate         time.Time   `gorm:"not null" json:"order_date"`
	DeliveryAddressID *uuid.UUID  `gorm:"type:uuid;index" json:"delivery_address_id"`
	DeliveryAddress   *Address    `gorm:"constraint:OnDelete:SET NULL;" json:"delivery_address,omitempty"`
	Items             []OrderItem `gorm:"constraint:OnDelete:CASCADE;" json:"items,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE;" json:"product,omitempty"`
	Quantity  int       `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
}
