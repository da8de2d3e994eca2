package models

import "github.com/google/uuid"

// Address is a delivery location owned by a user. The combination of user and
// the street/district/region/city/postal_code fields is unique.
type Address struct {
	BaseModel
	UserID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_address_match_key,priority:1" json:"user_id"`
	Street               string    `gorm:"size:255;not null;uniqueIndex:idx_address_match_key,priority:2" json:"street"`
	District             string    `gorm:"size:100;not null;uniqueIndex:idx_address_match_key,priority:3" json:"district"`
	Region               string    `gorm:"size:100;not null;default:'';uniqueIndex:idx_address_match_key,priority:4" json:"region"`
	City                 string    `gorm:"size:100;not null;uniqueIndex:idx_address_match_key,priority:5" json:"city"`
	PostalCode           string    `gorm:"size:20;not null;uniqueIndex:idx_address_match_key,priority:6" json:"postal_code"`
	DeliveryInstructions string    `gorm:"type:text;not null;default:''" json:"delivery_instructions"`
	IsDefault            bool      `gorm:"not null;default:false" json:"is_default"`
	IsDelivery           bool      `gorm:"not null" json:"is_delivery"`
}

// AddressKey is the tuple used to detect that two addresses are the same.
type AddressKey struct {
	Street     string
	District   string
	Region     string
	City       string
	PostalCode string
}

// Key returns the address's matching key.
func (a *Address) Key() AddressKey {
	return AddressKey{
		Street:     a.Street,
		District:   a.District,
		Region:     a.Region,
		City:       a.City,
		PostalCode: a.PostalCode,
	}
}
