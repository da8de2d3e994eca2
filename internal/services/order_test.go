package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

type recordingNotifier struct {
	sent chan OrderNotification
}

func (n *recordingNotifier) NotifyNewOrder(_ context.Context, order OrderNotification) error {
	n.sent <- order
	return nil
}

func newOrderService(f fixture, notifier OrderNotifier) *OrderService {
	return NewOrderService(f.store, NewAddressResolver(f.store), notifier)
}

func TestPlaceOrderCreatesGraph(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", false)
	apple := f.product(t, user.ID, "Apple", 12000)
	pear := f.product(t, user.ID, "Pear", 8000)

	notifier := &recordingNotifier{sent: make(chan OrderNotification, 1)}
	orders := newOrderService(f, notifier)

	order, err := orders.PlaceOrder(f.ctx, user.ID, PlaceOrderInput{
		Items: []OrderItemInput{
			{ProductID: apple.ID, Quantity: 2},
			{ProductID: pear.ID, Quantity: 1},
		},
		DeliveryAddress: &AddressInput{Street: "Main 1", District: "D", City: "C", PostalCode: "1"},
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.NotNil(t, order.DeliveryAddress)
	assert.Equal(t, "Main 1", order.DeliveryAddress.Street)
	require.Len(t, order.Items, 2)

	counts := f.store.Counts()
	assert.Equal(t, 1, counts["orders"])
	assert.Equal(t, 2, counts["order_items"])
	assert.Equal(t, 1, counts["addresses"])

	select {
	case sent := <-notifier.sent:
		assert.Equal(t, order.ID.String(), sent.OrderID)
		assert.Equal(t, "alice", sent.UserName)
		assert.Equal(t, "32000", sent.Total.String())
	case <-time.After(2 * time.Second):
		t.Fatal("order notification was not sent")
	}
}

func TestPlaceOrderReusesAddress(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", false)
	apple := f.product(t, user.ID, "Apple", 1000)
	orders := newOrderService(f, nil)

	input := PlaceOrderInput{
		Items:           []OrderItemInput{{ProductID: apple.ID, Quantity: 1}},
		DeliveryAddress: &AddressInput{Street: "Main 1", District: "D", City: "C", PostalCode: "1", DeliveryInstructions: "first"},
	}
	first, err := orders.PlaceOrder(f.ctx, user.ID, input)
	require.NoError(t, err)

	input.DeliveryAddress.DeliveryInstructions = "second"
	second, err := orders.PlaceOrder(f.ctx, user.ID, input)
	require.NoError(t, err)

	assert.Equal(t, *first.DeliveryAddressID, *second.DeliveryAddressID)
	assert.Equal(t, "first", second.DeliveryAddress.DeliveryInstructions)
	assert.Equal(t, 1, f.store.Counts()["addresses"])
	assert.Equal(t, 2, f.store.Counts()["orders"])
}

func TestPlaceOrderRollsBackOnUnknownProduct(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", false)
	apple := f.product(t, user.ID, "Apple", 1000)
	orders := newOrderService(f, nil)

	_, err := orders.PlaceOrder(f.ctx, user.ID, PlaceOrderInput{
		Items: []OrderItemInput{
			{ProductID: apple.ID, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 1},
		},
		DeliveryAddress: &AddressInput{Street: "New street", District: "D", City: "C", PostalCode: "1"},
	})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "items[1].product_id")

	counts := f.store.Counts()
	assert.Zero(t, counts["orders"])
	assert.Zero(t, counts["order_items"])
	assert.Zero(t, counts["addresses"], "address created inside the failed order is rolled back")
}

func TestPlaceOrderValidatesItems(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", false)
	orders := newOrderService(f, nil)

	_, err := orders.PlaceOrder(f.ctx, user.ID, PlaceOrderInput{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = orders.PlaceOrder(f.ctx, user.ID, PlaceOrderInput{
		Items: []OrderItemInput{{ProductID: uuid.New(), Quantity: 0}},
	})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "items[0].quantity")
	assert.Zero(t, f.store.Counts()["orders"])
}

func TestPlaceOrderRejectsBlankDeliveryAddress(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", false)
	product := f.product(t, user.ID, "Apple", 10)
	orders := newOrderService(f, nil)

	_, err := orders.PlaceOrder(f.ctx, user.ID, PlaceOrderInput{
		Items:           []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		DeliveryAddress: &AddressInput{Street: " ", District: "D", City: "C", PostalCode: "1"},
	})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "delivery_address.street")
	assert.Zero(t, f.store.Counts()["orders"])
	assert.Zero(t, f.store.Counts()["addresses"])
}

func TestDisabledTelegramIsNotUsedAsNotifier(t *testing.T) {
	f := newFixture(t)

	assert.Nil(t, newOrderService(f, NewTelegramService("", "")).notifier)

	var missing *TelegramService
	assert.Nil(t, newOrderService(f, missing).notifier)

	enabled := NewTelegramService("token", "-100")
	assert.NotNil(t, newOrderService(f, enabled).notifier)

	recorder := &recordingNotifier{sent: make(chan OrderNotification, 1)}
	assert.NotNil(t, newOrderService(f, recorder).notifier)
}

func TestOrdersAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", false)
	bob := f.user(t, "bob", false)
	apple := f.product(t, alice.ID, "Apple", 1000)
	orders := newOrderService(f, nil)

	order, err := orders.PlaceOrder(f.ctx, alice.ID, PlaceOrderInput{
		Items: []OrderItemInput{{ProductID: apple.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Nil(t, order.DeliveryAddressID)

	_, err = orders.GetOrder(f.ctx, bob.ID, order.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(orders.DeleteOrder(f.ctx, bob.ID, order.ID), apperr.KindNotFound))

	list, total, err := orders.ListOrders(f.ctx, repository.OrderQuery{UserID: bob.ID})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	list, total, err = orders.ListOrders(f.ctx, repository.OrderQuery{UserID: alice.ID, Status: models.OrderStatusPending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Items[0].Quantity)

	require.NoError(t, orders.DeleteOrder(f.ctx, alice.ID, order.ID))
	assert.Zero(t, f.store.Counts()["order_items"])
}
