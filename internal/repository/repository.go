// Package repository declares the data-access contracts used by the services.
// Implementations live in the postgres (production) and memory (tests)
// subpackages.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// Store groups the per-entity repositories and runs units of work.
type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	SubCategories() SubCategoryRepository
	Products() ProductRepository
	Addresses() AddressRepository
	Orders() OrderRepository
	Payments() PaymentRepository

	// WithinTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uuid.UUID) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByPhone(ctx context.Context, phone string) (models.User, error)
	Save(ctx context.Context, user *models.User) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Save(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SubCategoryRepository interface {
	List(ctx context.Context, query SubCategoryQuery) ([]models.SubCategory, error)
	Get(ctx context.Context, id uuid.UUID) (models.SubCategory, error)
	Create(ctx context.Context, sub *models.SubCategory) error
	Save(ctx context.Context, sub *models.SubCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRepository interface {
	List(ctx context.Context, query ProductQuery) ([]models.Product, int64, error)
	Get(ctx context.Context, id uuid.UUID) (models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AddressRepository interface {
	// FindByKey returns the user's address whose matching key equals key.
	FindByKey(ctx context.Context, userID uuid.UUID, key models.AddressKey) (models.Address, error)
	// CreateIfAbsent inserts address unless one with the same user and key
	// already exists. It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, address *models.Address) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Get(ctx context.Context, userID, id uuid.UUID) (models.Address, error)
	Save(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	AddItem(ctx context.Context, item *models.OrderItem) error
	List(ctx context.Context, query OrderQuery) ([]models.Order, int64, error)
	Get(ctx context.Context, userID, id uuid.UUID) (models.Order, error)
	IDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
}
