package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

type addressRepository struct{ s *Store }

func (r addressRepository) FindByKey(_ context.Context, userID uuid.UUID, key models.AddressKey) (models.Address, error) {
	defer r.s.lock()()
	if address, ok := r.s.findAddress(userID, key, uuid.Nil); ok {
		return address, nil
	}
	return models.Address{}, repository.ErrNotFound
}

func (r addressRepository) CreateIfAbsent(_ context.Context, address *models.Address) (bool, error) {
	defer r.s.lock()()
	if _, ok := r.s.data.users[address.UserID]; !ok {
		return false, repository.ErrNotFound
	}
	if _, ok := r.s.findAddress(address.UserID, address.Key(), uuid.Nil); ok {
		return false, nil
	}
	r.s.stamp(&address.BaseModel)
	r.s.data.addresses[address.ID] = *address
	return true, nil
}

func (r addressRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Address, error) {
	defer r.s.lock()()
	return r.s.userAddresses(userID), nil
}

func (r addressRepository) Get(_ context.Context, userID, id uuid.UUID) (models.Address, error) {
	defer r.s.lock()()
	address, ok := r.s.data.addresses[id]
	if !ok || address.UserID != userID {
		return models.Address{}, repository.ErrNotFound
	}
	return address, nil
}

func (r addressRepository) Save(_ context.Context, address *models.Address) error {
	defer r.s.lock()()
	if _, ok := r.s.data.addresses[address.ID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.findAddress(address.UserID, address.Key(), address.ID); ok {
		return repository.ErrDuplicate
	}
	r.s.stamp(&address.BaseModel)
	r.s.data.addresses[address.ID] = *address
	return nil
}

func (r addressRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	defer r.s.lock()()
	address, ok := r.s.data.addresses[id]
	if !ok || address.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.data.addresses, id)
	for orderID, order := range r.s.data.orders {
		if order.DeliveryAddressID != nil && *order.DeliveryAddressID == id {
			order.DeliveryAddressID = nil
			r.s.data.orders[orderID] = order
		}
	}
	return nil
}

func (s *Store) findAddress(userID uuid.UUID, key models.AddressKey, exclude uuid.UUID) (models.Address, bool) {
	for id, address := range s.data.addresses {
		if id != exclude && address.UserID == userID && address.Key() == key {
			return address, true
		}
	}
	return models.Address{}, false
}

func (s *Store) userAddresses(userID uuid.UUID) []models.Address {
	var addresses []models.Address
	for _, address := range s.data.addresses {
		if address.UserID == userID {
			addresses = append(addresses, address)
		}
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i].CreatedAt.Before(addresses[j].CreatedAt) })
	return addresses
}
