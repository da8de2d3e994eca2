package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

type orderRepository struct{ s *Store }

func (r orderRepository) Create(_ context.Context, order *models.Order) error {
	defer r.s.lock()()
	if _, ok := r.s.data.users[order.UserID]; !ok {
		return repository.ErrNotFound
	}
	if order.DeliveryAddressID != nil {
		if _, ok := r.s.data.addresses[*order.DeliveryAddressID]; !ok {
			return repository.ErrNotFound
		}
	}
	r.s.stamp(&order.BaseModel)
	stored := *order
	stored.DeliveryAddress = nil
	stored.Items = nil
	r.s.data.orders[stored.ID] = stored
	return nil
}

func (r orderRepository) AddItem(_ context.Context, item *models.OrderItem) error {
	defer r.s.lock()()
	if _, ok := r.s.data.orders[item.OrderID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.data.products[item.ProductID]; !ok {
		return repository.ErrNotFound
	}
	r.s.stamp(&item.BaseModel)
	stored := *item
	stored.Product = nil
	r.s.data.orderItems[stored.ID] = stored
	return nil
}

func (r orderRepository) List(_ context.Context, query repository.OrderQuery) ([]models.Order, int64, error) {
	defer r.s.lock()()
	var orders []models.Order
	for _, order := range r.s.data.orders {
		if order.UserID != query.UserID {
			continue
		}
		if query.Status != "" && order.Status != query.Status {
			continue
		}
		orders = append(orders, r.s.orderGraph(order))
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].OrderDate.After(orders[j].OrderDate) })

	total := int64(len(orders))
	if query.Limit > 0 {
		orders = page(orders, query.Limit, query.Offset)
	}
	return orders, total, nil
}

func (r orderRepository) Get(_ context.Context, userID, id uuid.UUID) (models.Order, error) {
	defer r.s.lock()()
	order, ok := r.s.data.orders[id]
	if !ok || order.UserID != userID {
		return models.Order{}, repository.ErrNotFound
	}
	return r.s.orderGraph(order), nil
}

func (r orderRepository) IDsByUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	defer r.s.lock()()
	var orders []models.Order
	for _, order := range r.s.data.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].OrderDate.After(orders[j].OrderDate) })
	ids := make([]uuid.UUID, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	return ids, nil
}

func (r orderRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	defer r.s.lock()()
	order, ok := r.s.data.orders[id]
	if !ok || order.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.data.orders, id)
	for itemID, item := range r.s.data.orderItems {
		if item.OrderID == id {
			delete(r.s.data.orderItems, itemID)
		}
	}
	for paymentID, payment := range r.s.data.payments {
		if payment.OrderID == id {
			delete(r.s.data.payments, paymentID)
		}
	}
	return nil
}

func (s *Store) orderGraph(order models.Order) models.Order {
	if order.DeliveryAddressID != nil {
		if address, ok := s.data.addresses[*order.DeliveryAddressID]; ok {
			order.DeliveryAddress = &address
		}
	}
	order.Items = nil
	for _, item := range s.data.orderItems {
		if item.OrderID != order.ID {
			continue
		}
		if product, ok := s.data.products[item.ProductID]; ok {
			item.Product = &product
		}
		order.Items = append(order.Items, item)
	}
	sort.SliceStable(order.Items, func(i, j int) bool {
		return order.Items[i].CreatedAt.Before(order.Items[j].CreatedAt)
	})
	return order
}

type paymentRepository struct{ s *Store }

func (r paymentRepository) Create(_ context.Context, payment *models.Payment) error {
	defer r.s.lock()()
	if _, ok := r.s.data.orders[payment.OrderID]; !ok {
		return repository.ErrNotFound
	}
	r.s.stamp(&payment.BaseModel)
	stored := *payment
	stored.Order = nil
	r.s.data.payments[stored.ID] = stored
	return nil
}

func (r paymentRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Payment, error) {
	defer r.s.lock()()
	var payments []models.Payment
	for _, payment := range r.s.data.payments {
		if payment.UserID == userID {
			payments = append(payments, payment)
		}
	}
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].PaymentDate.After(payments[j].PaymentDate) })
	return payments, nil
}
