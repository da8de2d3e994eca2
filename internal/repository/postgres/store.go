// Package postgres implements the repository contracts on top of GORM.
package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/example/storefront/internal/repository"
)

// Store is the GORM-backed repository.Store.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open GORM connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() repository.UserRepository { return userRepository{db: s.db} }
func (s *Store) Categories() repository.CategoryRepository { return categoryRepository{db: s.db} }
func (s *Store) SubCategories() repository.SubCategoryRepository { return subCategoryRepository{db: s.db} }
func (s *Store) Products() repository.ProductRepository { return productRepository{db: s.db} }
func (s *Store) Addresses() repository.AddressRepository { return addressRepository{db: s.db} }
func (s *Store) Orders() repository.OrderRepository { return orderRepository{db: s.db} }
func (s *Store) Payments() repository.PaymentRepository { return paymentRepository{db: s.db} }

// WithinTx runs fn inside a database transaction. Nested calls use savepoints.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}

// likePattern escapes LIKE metacharacters in a user supplied term.
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}
