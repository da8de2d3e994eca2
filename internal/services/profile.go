package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

// Profile is the canonical view of a user with the collections the profile
// endpoint exposes.
type Profile struct {
	User      models.User
	Addresses []models.Address
	Payments  []models.Payment
	OrderIDs  []uuid.UUID
}

// ProfileInput carries the editable profile fields. Username is read-only.
type ProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

// AddressPatch carries editable address fields. Nil fields are left
// unchanged.
type AddressPatch struct {
	Street               *string
	District             *string
	Region               *string
	City                 *string
	PostalCode           *string
	DeliveryInstructions *string
	IsDefault            *bool
	IsDelivery           *bool
}

// ProfileService serves the caller's own account data.
type ProfileService struct {
	store     repository.Store
	addresses *AddressResolver
}

// NewProfileService constructs ProfileService.
func NewProfileService(store repository.Store, addresses *AddressResolver) *ProfileService {
	return &ProfileService{store: store, addresses: addresses}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return Profile{}, notFound(err, "user")
	}

	profile := Profile{User: user}
	if profile.Addresses, err = s.store.Addresses().ListByUser(ctx, userID); err != nil {
		return Profile{}, fmt.Errorf("list addresses: %w", err)
	}
	if profile.Payments, err = s.store.Payments().ListByUser(ctx, userID); err != nil {
		return Profile{}, fmt.Errorf("list payments: %w", err)
	}
	if profile.OrderIDs, err = s.store.Orders().IDsByUser(ctx, userID); err != nil {
		return Profile{}, fmt.Errorf("list orders: %w", err)
	}
	return profile, nil
}

// UpdateProfile applies a partial update. A blank phone falls back to the
// username again.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (Profile, error) {
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return notFound(err, "user")
		}

		if input.FirstName != nil {
			user.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			user.LastName = *input.LastName
		}
		setString(&user.Email, input.Email)
		setString(&user.Phone, input.Phone)
		user.DefaultPhone()

		if err := checkUserUnique(ctx, tx, user.ID, "", user.Phone); err != nil {
			return err
		}
		err = tx.Users().Save(ctx, &user)
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.FieldValidation("phone", "a user with that phone already exists")
		}
		return err
	})
	if err != nil {
		return Profile{}, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *ProfileService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	return s.store.Addresses().ListByUser(ctx, userID)
}

// AddAddress returns the caller's existing address with the same matching
// key or stores a new one.
func (s *ProfileService) AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (models.Address, bool, error) {
	return s.addresses.Resolve(ctx, userID, input)
}

func (s *ProfileService) UpdateAddress(ctx context.Context, userID, id uuid.UUID, patch AddressPatch) (models.Address, error) {
	address, err := s.store.Addresses().Get(ctx, userID, id)
	if err != nil {
		return models.Address{}, notFound(err, "address")
	}

	updated := AddressInput{
		Street:               address.Street,
		District:             address.District,
		Region:               address.Region,
		City:                 address.City,
		PostalCode:           address.PostalCode,
		DeliveryInstructions: address.DeliveryInstructions,
	}
	for dst, value := range map[*string]*string{
		&updated.Street:               patch.Street,
		&updated.District:             patch.District,
		&updated.Region:               patch.Region,
		&updated.City:                 patch.City,
		&updated.PostalCode:           patch.PostalCode,
		&updated.DeliveryInstructions: patch.DeliveryInstructions,
	} {
		if value != nil {
			*dst = *value
		}
	}
	updated = updated.normalized()
	if fields := updated.blankFields(""); len(fields) > 0 {
		return models.Address{}, apperr.Validation("invalid address", fields)
	}
	address.Street = updated.Street
	address.District = updated.District
	address.Region = updated.Region
	address.City = updated.City
	address.PostalCode = updated.PostalCode
	address.DeliveryInstructions = updated.DeliveryInstructions
	if patch.IsDefault != nil {
		address.IsDefault = *patch.IsDefault
	}
	if patch.IsDelivery != nil {
		address.IsDelivery = *patch.IsDelivery
	}

	err = s.store.Addresses().Save(ctx, &address)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Address{}, apperr.Validation("an address with these details already exists", map[string]string{
			"street": "an address with these details already exists",
		})
	}
	return address, notFound(err, "address")
}

func (s *ProfileService) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error {
	return notFound(s.store.Addresses().Delete(ctx, userID, id), "address")
}
