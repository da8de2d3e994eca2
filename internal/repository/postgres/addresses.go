package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

var addressKeyColumns = []clause.Column{
	{Name: "user_id"},
	{Name: "street"},
	{Name: "district"},
	{Name: "region"},
	{Name: "city"},
	{Name: "postal_code"},
}

type addressRepository struct {
	db *gorm.DB
}

func (r addressRepository) FindByKey(ctx context.Context, userID uuid.UUID, key models.AddressKey) (models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND street = ? AND district = ? AND region = ? AND city = ? AND postal_code = ?",
			userID, key.Street, key.District, key.Region, key.City, key.PostalCode).
		Take(&address).Error
	return address, translate(err)
}

// CreateIfAbsent relies on the idx_address_match_key unique index: a
// concurrent insert of the same key blocks until the other transaction
// finishes and then inserts nothing.
func (r addressRepository) CreateIfAbsent(ctx context.Context, address *models.Address) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: addressKeyColumns, DoNothing: true}).
		Create(address)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r addressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&addresses).Error
	return addresses, translate(err)
}

func (r addressRepository) Get(ctx context.Context, userID, id uuid.UUID) (models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).First(&address, "id = ? AND user_id = ?", id, userID).Error
	return address, translate(err)
}

func (r addressRepository) Save(ctx context.Context, address *models.Address) error {
	return translate(r.db.WithContext(ctx).Save(address).Error)
}

func (r addressRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
