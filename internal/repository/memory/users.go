package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

type userRepository struct{ s *Store }

func (r userRepository) Create(_ context.Context, user *models.User) error {
	defer r.s.lock()()
	user.DefaultPhone()
	if r.conflicts(*user) {
		return repository.ErrDuplicate
	}
	r.s.stamp(&user.BaseModel)
	r.s.data.users[user.ID] = stripUser(*user)
	return nil
}

func (r userRepository) Get(_ context.Context, id uuid.UUID) (models.User, error) {
	defer r.s.lock()()
	user, ok := r.s.data.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (r userRepository) GetByUsername(_ context.Context, username string) (models.User, error) {
	defer r.s.lock()()
	for _, user := range r.s.data.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (r userRepository) GetByPhone(_ context.Context, phone string) (models.User, error) {
	defer r.s.lock()()
	for _, user := range r.s.data.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (r userRepository) Save(_ context.Context, user *models.User) error {
	defer r.s.lock()()
	if _, ok := r.s.data.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.DefaultPhone()
	if r.conflicts(*user) {
		return repository.ErrDuplicate
	}
	r.s.stamp(&user.BaseModel)
	r.s.data.users[user.ID] = stripUser(*user)
	return nil
}

func (r userRepository) conflicts(candidate models.User) bool {
	for id, user := range r.s.data.users {
		if id == candidate.ID {
			continue
		}
		if user.Username == candidate.Username || user.Phone == candidate.Phone {
			return true
		}
	}
	return false
}

func stripUser(user models.User) models.User {
	user.Addresses = nil
	user.Orders = nil
	user.Payments = nil
	return user
}
