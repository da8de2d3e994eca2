package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

// OrderNotifier is told about every committed order.
type OrderNotifier interface {
	NotifyNewOrder(ctx context.Context, order OrderNotification) error
}

// OrderItemInput is one requested line of an order.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput is a validated order request. The owner is never part of
// it; orders always belong to the authenticated caller.
type PlaceOrderInput struct {
	Items           []OrderItemInput
	DeliveryAddress *AddressInput
}

// OrderService composes orders and serves the caller's order history.
type OrderService struct {
	store     repository.Store
	addresses *AddressResolver
	notifier  OrderNotifier
	now       func() time.Time
}

// NewOrderService constructs OrderService. notifier may be nil; a notifier
// that reports itself disabled is treated as nil.
func NewOrderService(store repository.Store, addresses *AddressResolver, notifier OrderNotifier) *OrderService {
	if n, ok := notifier.(interface{ Enabled() bool }); ok && !n.Enabled() {
		notifier = nil
	}
	return &OrderService{
		store:     store,
		addresses: addresses,
		notifier:  notifier,
		now:       time.Now,
	}
}

// PlaceOrder creates the order, its delivery address (if new) and all of its
// items in one transaction. Nothing is persisted when any step fails.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (models.Order, error) {
	if err := validateOrderItems(input.Items); err != nil {
		return models.Order{}, err
	}
	if input.DeliveryAddress != nil {
		if fields := input.DeliveryAddress.normalized().blankFields("delivery_address."); len(fields) > 0 {
			return models.Order{}, apperr.Validation("invalid delivery address", fields)
		}
	}

	var orderID uuid.UUID
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		order := models.Order{
			UserID:    userID,
			Status:    models.OrderStatusPending,
			OrderDate: s.now(),
		}

		if input.DeliveryAddress != nil {
			address, _, err := s.addresses.ResolveOrCreate(ctx, tx, userID, *input.DeliveryAddress)
			if err != nil {
				return err
			}
			order.DeliveryAddressID = &address.ID
		}

		if err := tx.Orders().Create(ctx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i, line := range input.Items {
			if _, err := tx.Products().Get(ctx, line.ProductID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperr.FieldValidation(
						fmt.Sprintf("items[%d].product_id", i),
						fmt.Sprintf("invalid pk %q - object does not exist", line.ProductID),
					)
				}
				return fmt.Errorf("load product: %w", err)
			}

			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
			if err := tx.Orders().AddItem(ctx, &item); err != nil {
				return fmt.Errorf("add order item: %w", err)
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	order, err := s.store.Orders().Get(ctx, userID, orderID)
	if err != nil {
		return models.Order{}, fmt.Errorf("reload order: %w", err)
	}

	if s.notifier != nil {
		go s.notify(userID, order)
	}

	return order, nil
}

func validateOrderItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return apperr.FieldValidation("items", "ensure this list has at least 1 items")
	}
	fields := map[string]string{}
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			fields[fmt.Sprintf("items[%d].product_id", i)] = "this field is required"
		}
		if item.Quantity <= 0 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "ensure this value is greater than 0"
		}
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid order items", fields)
	}
	return nil
}

func (s *OrderService) notify(userID uuid.UUID, order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger := slog.With("order_id", order.ID)

	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		logger.Warn("order notification skipped", "error", err)
		return
	}

	if err := s.notifier.NotifyNewOrder(ctx, buildOrderNotification(user, order)); err != nil {
		logger.Warn("order notification failed", "error", err)
	}
}

func buildOrderNotification(user models.User, order models.Order) OrderNotification {
	notification := OrderNotification{
		OrderID:   order.ID.String(),
		UserName:  user.DisplayName(),
		UserPhone: user.Phone,
		Status:    order.Status,
		Total:     decimal.Zero,
	}

	for _, item := range order.Items {
		line := OrderItemNotification{Quantity: item.Quantity}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.Price = item.Product.SalePrice()
		}
		notification.Total = notification.Total.Add(line.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		notification.Items = append(notification.Items, line)
	}

	if address := order.DeliveryAddress; address != nil {
		parts := []string{}
		for _, part := range []string{address.Street, address.District, address.Region, address.City, address.PostalCode} {
			if part != "" {
				parts = append(parts, part)
			}
		}
		notification.Address = strings.Join(parts, ", ")
	}

	return notification
}

// ListOrders returns the caller's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, query repository.OrderQuery) ([]models.Order, int64, error) {
	return s.store.Orders().List(ctx, query)
}

// GetOrder returns one of the caller's orders.
func (s *OrderService) GetOrder(ctx context.Context, userID, id uuid.UUID) (models.Order, error) {
	order, err := s.store.Orders().Get(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, apperr.NotFound("order not found")
	}
	return order, err
}

// DeleteOrder removes one of the caller's orders together with its items and
// payments.
func (s *OrderService) DeleteOrder(ctx context.Context, userID, id uuid.UUID) error {
	err := s.store.Orders().Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("order not found")
	}
	return err
}
