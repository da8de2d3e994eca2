package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WeightUnit is the unit a product's weight is expressed in.
type WeightUnit string

const (
	WeightUnitKilogram WeightUnit = "kg"
	WeightUnitPiece    WeightUnit = "dona"
)

// Valid reports whether the unit is one of the known values.
func (u WeightUnit) Valid() bool {
	return u == WeightUnitKilogram || u == WeightUnitPiece
}

// Product is a sellable catalog item.
type Product struct {
	BaseModel
	SubCategoryID uuid.UUID       `gorm:"type:uuid;index;not null" json:"sub_category_id"`
	SubCategory   *SubCategory    `json:"subcategory,omitempty"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Cost          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost"`
	Weight        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"weight"`
	WeightUnit    WeightUnit      `gorm:"size:20;not null;default:'kg'" json:"weight_unit"`
	Discount      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount"`
	Image         string          `json:"image"`
	CreatedByID   *uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	CreatedBy     *User           `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL;" json:"-"`
}

// OwnedBy reports whether userID created the product.
func (p *Product) OwnedBy(userID uuid.UUID) bool {
	return p.CreatedByID != nil && *p.CreatedByID == userID
}

var hundred = decimal.NewFromInt(100)

// SalePrice is the cost with the percentage discount applied, rounded to
// two places.
func (p *Product) SalePrice() decimal.Decimal {
	if p.Discount.IsZero() {
		return p.Cost
	}
	return p.Cost.Mul(hundred.Sub(p.Discount)).Div(hundred).Round(2)
}
