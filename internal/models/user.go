package models

import (
	"strings"

	"gorm.io/gorm"
)

// User represents an account holder. Username is the primary login key and
// Phone the secondary one.
type User struct {
	BaseModel
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Phone        string    `gorm:"size:150;uniqueIndex;not null" json:"phone"`
	Email        string    `gorm:"size:254" json:"email"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	Addresses    []Address `gorm:"constraint:OnDelete:CASCADE;" json:"addresses,omitempty"`
	Orders       []Order   `gorm:"constraint:OnDelete:CASCADE;" json:"orders,omitempty"`
	Payments     []Payment `gorm:"constraint:OnDelete:CASCADE;" json:"payments,omitempty"`
}

// DefaultPhone falls back to the username when no phone was given. It runs on
// every save, so only a blank phone is ever rewritten.
func (u *User) DefaultPhone() {
	if strings.TrimSpace(u.Phone) == "" {
		u.Phone = u.Username
	}
}

// DisplayName is the full name, or the username when no name is set.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// BeforeSave applies the phone default before inserts and updates.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.DefaultPhone()
	return nil
}
