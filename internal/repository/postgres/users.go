package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

type userRepository struct {
	db *gorm.DB
}

func (r userRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r userRepository) Get(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	return user, translate(err)
}

func (r userRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	return user, translate(err)
}

func (r userRepository) GetByPhone(ctx context.Context, phone string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("phone = ?", phone).Take(&user).Error
	return user, translate(err)
}

func (r userRepository) Save(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit("Addresses", "Orders", "Payments").Save(user).Error)
}
