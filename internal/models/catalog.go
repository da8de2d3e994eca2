package models

import "github.com/google/uuid"

// Category is the root of the catalog hierarchy.
type Category struct {
	BaseModel
	Name          string        `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description   string        `json:"description"`
	Image         string        `json:"image"`
	SubCategories []SubCategory `gorm:"constraint:OnDelete:CASCADE;" json:"subcategories,omitempty"`
}

// SubCategory groups products below a single category.
type SubCategory struct {
	BaseModel
	CategoryID  uuid.UUID `gorm:"type:uuid;index;not null" json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Products    []Product `gorm:"constraint:OnDelete:CASCADE;" json:"products,omitempty"`
}
