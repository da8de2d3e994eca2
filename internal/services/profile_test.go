package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
)

func TestProfileCollectsOwnedRecords(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", false)
	apple := f.product(t, user.ID, "Apple", 1000)
	resolver := NewAddressResolver(f.store)
	profiles := NewProfileService(f.store, resolver)
	orders := NewOrderService(f.store, resolver, nil)
	payments := NewPaymentService(f.store)

	order, err := orders.PlaceOrder(f.ctx, user.ID, PlaceOrderInput{
		Items:           []OrderItemInput{{ProductID: apple.ID, Quantity: 1}},
		DeliveryAddress: &AddressInput{Street: "Main 1", District: "D", City: "C", PostalCode: "1"},
	})
	require.NoError(t, err)

	_, err = payments.Create(f.ctx, user.ID, PaymentInput{OrderID: order.ID, Amount: decimal.NewFromInt(1000), Method: models.PaymentMethodCash})
	require.NoError(t, err)

	profile, err := profiles.GetProfile(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.User.Username)
	assert.Len(t, profile.Addresses, 1)
	assert.Len(t, profile.Payments, 1)
	assert.Equal(t, []uuid.UUID{order.ID}, profile.OrderIDs)
}

func TestUpdateProfilePhone(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", false)
	f.user(t, "bob", false)
	profiles := NewProfileService(f.store, NewAddressResolver(f.store))

	profile, err := profiles.UpdateProfile(f.ctx, alice.ID, ProfileInput{Phone: strPtr("+998900000000"), FirstName: strPtr("Alice")})
	require.NoError(t, err)
	assert.Equal(t, "+998900000000", profile.User.Phone)
	assert.Equal(t, "Alice", profile.User.DisplayName())

	profile, err = profiles.UpdateProfile(f.ctx, alice.ID, ProfileInput{Phone: strPtr(" ")})
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.User.Phone, "blank phone falls back to username")

	_, err = profiles.UpdateProfile(f.ctx, alice.ID, ProfileInput{Phone: strPtr("bob")})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "phone")
}

func TestAddressManagement(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", false)
	bob := f.user(t, "bob", false)
	profiles := NewProfileService(f.store, NewAddressResolver(f.store))

	home, created, err := profiles.AddAddress(f.ctx, alice.ID, AddressInput{Street: "Home", District: "D", City: "C", PostalCode: "1"})
	require.NoError(t, err)
	assert.True(t, created)
	work, _, err := profiles.AddAddress(f.ctx, alice.ID, AddressInput{Street: "Work", District: "D", City: "C", PostalCode: "1"})
	require.NoError(t, err)

	_, err = profiles.UpdateAddress(f.ctx, alice.ID, work.ID, AddressPatch{Street: strPtr("Home")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	updated, err := profiles.UpdateAddress(f.ctx, alice.ID, work.ID, AddressPatch{IsDefault: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	_, err = profiles.UpdateAddress(f.ctx, bob.ID, home.ID, AddressPatch{Street: strPtr("Mine")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, profiles.DeleteAddress(f.ctx, alice.ID, home.ID))
	addresses, err := profiles.ListAddresses(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, addresses, 1)
}

func TestUpdateAddressRejectsBlankFieldsAndTrims(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", false)
	resolver := NewAddressResolver(f.store)
	profiles := NewProfileService(f.store, resolver)

	work, _, err := profiles.AddAddress(f.ctx, alice.ID, AddressInput{Street: "Work", District: "D", City: "C", PostalCode: "1"})
	require.NoError(t, err)

	_, err = profiles.UpdateAddress(f.ctx, alice.ID, work.ID, AddressPatch{Street: strPtr(""), City: strPtr("   ")})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "street")
	assert.Contains(t, appErr.Fields, "city")

	stored, err := f.store.Addresses().Get(f.ctx, alice.ID, work.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", stored.Street)

	updated, err := profiles.UpdateAddress(f.ctx, alice.ID, work.ID, AddressPatch{Street: strPtr("  Office 2 ")})
	require.NoError(t, err)
	assert.Equal(t, "Office 2", updated.Street)

	again, created, err := resolver.Resolve(f.ctx, alice.ID, AddressInput{Street: "  Office 2 ", District: "D", City: "C", PostalCode: "1"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, work.ID, again.ID)
}

func TestPaymentValidation(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", false)
	bob := f.user(t, "bob", false)
	apple := f.product(t, alice.ID, "Apple", 1000)
	orders := NewOrderService(f.store, NewAddressResolver(f.store), nil)
	payments := NewPaymentService(f.store)

	order, err := orders.PlaceOrder(f.ctx, alice.ID, PlaceOrderInput{Items: []OrderItemInput{{ProductID: apple.ID, Quantity: 1}}})
	require.NoError(t, err)

	_, err = payments.Create(f.ctx, alice.ID, PaymentInput{OrderID: order.ID, Amount: decimal.Zero, Method: "crypto"})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "amount")
	assert.Contains(t, appErr.Fields, "payment_method")

	_, err = payments.Create(f.ctx, bob.ID, PaymentInput{OrderID: order.ID, Amount: decimal.NewFromInt(5), Method: models.PaymentMethodCard})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	payment, err := payments.Create(f.ctx, alice.ID, PaymentInput{OrderID: order.ID, Amount: decimal.NewFromInt(5), Method: models.PaymentMethodCard})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
}

func boolPtr(b bool) *bool { return &b }
