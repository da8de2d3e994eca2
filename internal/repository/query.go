package repository

import (
	"strings"

	"github.com/google/uuid"
)

// ProductOrdering names a supported product sort order. A leading "-" means
// descending.
type ProductOrdering string

const (
	OrderByCostAsc       ProductOrdering = "cost"
	OrderByCostDesc      ProductOrdering = "-cost"
	OrderByCreatedAtAsc  ProductOrdering = "created_at"
	OrderByCreatedAtDesc ProductOrdering = "-created_at"
)

// DefaultProductOrdering lists the newest products first.
const DefaultProductOrdering = OrderByCreatedAtDesc

// ParseProductOrdering maps a query parameter onto a supported ordering,
// falling back to the default for unknown values.
func ParseProductOrdering(value string) ProductOrdering {
	switch o := ProductOrdering(strings.TrimSpace(value)); o {
	case OrderByCostAsc, OrderByCostDesc, OrderByCreatedAtAsc, OrderByCreatedAtDesc:
		return o
	}
	return DefaultProductOrdering
}

// Column returns the sort column without direction.
func (o ProductOrdering) Column() string {
	return strings.TrimPrefix(string(o), "-")
}

// Descending reports whether the ordering is descending.
func (o ProductOrdering) Descending() bool {
	return strings.HasPrefix(string(o), "-")
}

// ProductQuery describes a product listing. The zero value lists every
// product newest first without pagination.
type ProductQuery struct {
	Search        string
	Ordering      ProductOrdering
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	Limit         int
	Offset        int
}

// SearchTerms splits the search string into whitespace-separated terms. A
// product must match every term in its name or description.
func (q ProductQuery) SearchTerms() []string {
	return strings.Fields(q.Search)
}

// EffectiveOrdering returns the ordering to apply.
func (q ProductQuery) EffectiveOrdering() ProductOrdering {
	if q.Ordering == "" {
		return DefaultProductOrdering
	}
	return ParseProductOrdering(string(q.Ordering))
}

// SubCategoryQuery filters subcategory listings.
type SubCategoryQuery struct {
	CategoryID *uuid.UUID
}

// OrderQuery describes a listing of one user's orders, newest first.
type OrderQuery struct {
	UserID uuid.UUID
	Status string
	Limit  int
	Offset int
}
