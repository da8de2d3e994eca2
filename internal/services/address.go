package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

// AddressInput carries the client-supplied fields of an address.
type AddressInput struct {
	Street               string
	District             string
	Region               string
	City                 string
	PostalCode           string
	DeliveryInstructions string
	IsDefault            bool
	IsDelivery           *bool
}

// normalized trims surrounding whitespace from every text field. Stored
// addresses and lookups both go through it, so the matching key compares
// trimmed values.
func (in AddressInput) normalized() AddressInput {
	in.Street = strings.TrimSpace(in.Street)
	in.District = strings.TrimSpace(in.District)
	in.Region = strings.TrimSpace(in.Region)
	in.City = strings.TrimSpace(in.City)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.DeliveryInstructions = strings.TrimSpace(in.DeliveryInstructions)
	return in
}

// blankFields reports the required fields that are empty, keyed by prefix
// plus the JSON field name.
func (in AddressInput) blankFields(prefix string) map[string]string {
	fields := map[string]string{}
	for name, value := range map[string]string{
		"street":      in.Street,
		"district":    in.District,
		"city":        in.City,
		"postal_code": in.PostalCode,
	} {
		if value == "" {
			fields[prefix+name] = "this field may not be blank"
		}
	}
	return fields
}

func (in AddressInput) key() models.AddressKey {
	return models.AddressKey{
		Street:     in.Street,
		District:   in.District,
		Region:     in.Region,
		City:       in.City,
		PostalCode: in.PostalCode,
	}
}

func (in AddressInput) model(userID uuid.UUID) models.Address {
	isDelivery := true
	if in.IsDelivery != nil {
		isDelivery = *in.IsDelivery
	}
	return models.Address{
		UserID:               userID,
		Street:               in.Street,
		District:             in.District,
		Region:               in.Region,
		City:                 in.City,
		PostalCode:           in.PostalCode,
		DeliveryInstructions: in.DeliveryInstructions,
		IsDefault:            in.IsDefault,
		IsDelivery:           isDelivery,
	}
}

// AddressResolver turns a candidate address into a stored one, reusing the
// user's existing row when the matching key is already known.
type AddressResolver struct {
	store repository.Store
}

// NewAddressResolver constructs AddressResolver.
func NewAddressResolver(store repository.Store) *AddressResolver {
	return &AddressResolver{store: store}
}

// Resolve runs ResolveOrCreate in its own transaction.
func (r *AddressResolver) Resolve(ctx context.Context, userID uuid.UUID, input AddressInput) (models.Address, bool, error) {
	var (
		address models.Address
		created bool
	)
	err := r.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		address, created, err = r.ResolveOrCreate(ctx, tx, userID, input)
		return err
	})
	return address, created, err
}

// ResolveOrCreate returns the user's address with the same street, district,
// region, city and postal code, or inserts the candidate. An existing address
// is returned as stored; the candidate's instructions and flags are only used
// for new rows. The unique matching index makes concurrent callers converge
// on a single row.
func (r *AddressResolver) ResolveOrCreate(ctx context.Context, tx repository.Store, userID uuid.UUID, input AddressInput) (models.Address, bool, error) {
	input = input.normalized()
	if fields := input.blankFields(""); len(fields) > 0 {
		return models.Address{}, false, apperr.Validation("invalid address", fields)
	}

	addresses := tx.Addresses()

	existing, err := addresses.FindByKey(ctx, userID, input.key())
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.Address{}, false, fmt.Errorf("find address: %w", err)
	}

	candidate := input.model(userID)
	inserted, err := addresses.CreateIfAbsent(ctx, &candidate)
	if err != nil {
		return models.Address{}, false, fmt.Errorf("create address: %w", err)
	}
	if inserted {
		return candidate, true, nil
	}

	// Another transaction inserted the same key between our read and write.
	winner, err := addresses.FindByKey(ctx, userID, input.key())
	if err != nil {
		return models.Address{}, false, fmt.Errorf("reload address: %w", err)
	}
	return winner, false, nil
}
