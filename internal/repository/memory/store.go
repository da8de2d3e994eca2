// Package memory is an in-process implementation of the repository contracts.
// Transactions are serialized and roll back by restoring a snapshot, which is
// enough to exercise the services' atomicity guarantees in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

type state struct {
	users         map[uuid.UUID]models.User
	categories    map[uuid.UUID]models.Category
	subCategories map[uuid.UUID]models.SubCategory
	products      map[uuid.UUID]models.Product
	addresses     map[uuid.UUID]models.Address
	orders        map[uuid.UUID]models.Order
	orderItems    map[uuid.UUID]models.OrderItem
	payments      map[uuid.UUID]models.Payment
}

func newState() *state {
	return &state{
		users:         map[uuid.UUID]models.User{},
		categories:    map[uuid.UUID]models.Category{},
		subCategories: map[uuid.UUID]models.SubCategory{},
		products:      map[uuid.UUID]models.Product{},
		addresses:     map[uuid.UUID]models.Address{},
		orders:        map[uuid.UUID]models.Order{},
		orderItems:    map[uuid.UUID]models.OrderItem{},
		payments:      map[uuid.UUID]models.Payment{},
	}
}

func (s *state) clone() *state {
	return &state{
		users:         cloneMap(s.users),
		categories:    cloneMap(s.categories),
		subCategories: cloneMap(s.subCategories),
		products:      cloneMap(s.products),
		addresses:     cloneMap(s.addresses),
		orders:        cloneMap(s.orders),
		orderItems:    cloneMap(s.orderItems),
		payments:      cloneMap(s.payments),
	}
}

func cloneMap[V any](in map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Store is a repository.Store kept in memory.
type Store struct {
	mu   *sync.Mutex
	data *state
	inTx bool
	now  func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{mu: &sync.Mutex{}, data: newState(), now: time.Now}
}

// lock takes the store mutex unless the caller already runs inside WithinTx.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Users() repository.UserRepository { return userRepository{s} }
func (s *Store) Categories() repository.CategoryRepository { return categoryRepository{s} }
func (s *Store) SubCategories() repository.SubCategoryRepository { return subCategoryRepository{s} }
func (s *Store) Products() repository.ProductRepository { return productRepository{s} }
func (s *Store) Addresses() repository.AddressRepository { return addressRepository{s} }
func (s *Store) Orders() repository.OrderRepository { return orderRepository{s} }
func (s *Store) Payments() repository.PaymentRepository { return paymentRepository{s} }

// WithinTx serializes fn against every other transaction and restores the
// previous state when fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &Store{mu: s.mu, data: s.data, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Counts reports the number of stored rows per table, for assertions.
func (s *Store) Counts() map[string]int {
	defer s.lock()()
	return map[string]int{
		"users":          len(s.data.users),
		"categories":     len(s.data.categories),
		"sub_categories": len(s.data.subCategories),
		"products":       len(s.data.products),
		"addresses":      len(s.data.addresses),
		"orders":         len(s.data.orders),
		"order_items":    len(s.data.orderItems),
		"payments":       len(s.data.payments),
	}
}

func (s *Store) stamp(base *models.BaseModel) {
	base.EnsureID()
	now := s.now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}
