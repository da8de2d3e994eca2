package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

type orderRepository struct {
	db *gorm.DB
}

func (r orderRepository) Create(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error)
}

func (r orderRepository) AddItem(ctx context.Context, item *models.OrderItem) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error)
}

func (r orderRepository) List(ctx context.Context, query repository.OrderQuery) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", query.UserID)
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	if query.Limit > 0 {
		q = q.Limit(query.Limit).Offset(query.Offset)
	}

	var orders []models.Order
	if err := withOrderGraph(q).Order("order_date desc").Find(&orders).Error; err != nil {
		return nil, 0, translate(err)
	}
	return orders, total, nil
}

func (r orderRepository) Get(ctx context.Context, userID, id uuid.UUID) (models.Order, error) {
	var order models.Order
	err := withOrderGraph(r.db.WithContext(ctx)).
		First(&order, "id = ? AND user_id = ?", id, userID).Error
	return order, translate(err)
}

func (r orderRepository) IDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", userID).
		Order("order_date desc").
		Pluck("id", &ids).Error
	return ids, translate(err)
}

func (r orderRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Order{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func withOrderGraph(q *gorm.DB) *gorm.DB {
	return q.Preload("DeliveryAddress").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Items.Product")
}

type paymentRepository struct {
	db *gorm.DB
}

func (r paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(payment).Error)
}

func (r paymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("payment_date desc").Find(&payments).Error
	return payments, translate(err)
}
