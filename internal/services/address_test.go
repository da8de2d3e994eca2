package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

func TestResolveReusesExistingAddress(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", false)
	resolver := NewAddressResolver(f.store)

	input := AddressInput{Street: "Main 1", District: "Chilonzor", City: "Tashkent", PostalCode: "100000", DeliveryInstructions: "ring twice"}
	first, created, err := resolver.Resolve(f.ctx, user.ID, input)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, first.IsDelivery)
	assert.False(t, first.IsDefault)

	noDelivery := false
	input.DeliveryInstructions = "leave at door"
	input.IsDelivery = &noDelivery
	second, created, err := resolver.Resolve(f.ctx, user.ID, input)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "ring twice", second.DeliveryInstructions, "existing rows are returned unchanged")
	assert.True(t, second.IsDelivery)
	assert.Equal(t, 1, f.store.Counts()["addresses"])
}

func TestResolveTreatsKeyFieldsExactly(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", false)
	other := f.user(t, "bob", false)
	resolver := NewAddressResolver(f.store)

	base := AddressInput{Street: "Main 1", District: "D", City: "C", PostalCode: "1"}
	_, _, err := resolver.Resolve(f.ctx, user.ID, base)
	require.NoError(t, err)

	variants := []AddressInput{
		{Street: "main 1", District: "D", City: "C", PostalCode: "1"},
		{Street: "Main 1", District: "D", Region: "R", City: "C", PostalCode: "1"},
		{Street: "Main 1", District: "D", City: "C", PostalCode: "2"},
	}
	for _, v := range variants {
		_, created, err := resolver.Resolve(f.ctx, user.ID, v)
		require.NoError(t, err)
		assert.True(t, created)
	}

	_, created, err := resolver.Resolve(f.ctx, other.ID, base)
	require.NoError(t, err)
	assert.True(t, created, "addresses are matched per user")
	assert.Equal(t, 5, f.store.Counts()["addresses"])
}

func TestResolveConcurrentCallersShareOneRow(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", false)
	resolver := NewAddressResolver(f.store)
	input := AddressInput{Street: "Main 1", District: "D", City: "C", PostalCode: "1"}

	const workers = 16
	ids := make([]uuid.UUID, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			address, _, err := resolver.Resolve(f.ctx, user.ID, input)
			assert.NoError(t, err)
			ids[i] = address.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	addresses, err := f.store.Addresses().ListByUser(f.ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, models.AddressKey{Street: "Main 1", District: "D", City: "C", PostalCode: "1"}, addresses[0].Key())
}

// racedStore hands out an address repository that behaves as if another
// transaction committed the same key between the lookup and the insert.
type racedStore struct {
	repository.Store
	addresses *racedAddresses
}

func (s racedStore) Addresses() repository.AddressRepository { return s.addresses }

type racedAddresses struct {
	repository.AddressRepository
	winner  models.Address
	lookups int
	inserts int
}

func (r *racedAddresses) FindByKey(_ context.Context, userID uuid.UUID, key models.AddressKey) (models.Address, error) {
	r.lookups++
	if r.lookups == 1 || userID != r.winner.UserID || key != r.winner.Key() {
		return models.Address{}, repository.ErrNotFound
	}
	return r.winner, nil
}

func (r *racedAddresses) CreateIfAbsent(_ context.Context, _ *models.Address) (bool, error) {
	r.inserts++
	return false, nil
}

func TestResolveReturnsWinnerWhenInsertLosesRace(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", false)

	winner := models.Address{UserID: user.ID, Street: "Main 1", District: "D", City: "C", PostalCode: "1", DeliveryInstructions: "from the other request"}
	winner.EnsureID()
	addresses := &racedAddresses{winner: winner}
	tx := racedStore{Store: f.store, addresses: addresses}

	resolver := NewAddressResolver(f.store)
	address, created, err := resolver.ResolveOrCreate(f.ctx, tx, user.ID, AddressInput{Street: "Main 1", District: "D", City: "C", PostalCode: "1"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, address.ID)
	assert.Equal(t, "from the other request", address.DeliveryInstructions)
	assert.Equal(t, 2, addresses.lookups)
	assert.Equal(t, 1, addresses.inserts)
}

func TestResolveTrimsAndRequiresKeyFields(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", false)
	resolver := NewAddressResolver(f.store)

	first, created, err := resolver.Resolve(f.ctx, user.ID, AddressInput{Street: " Main 1 ", District: "D", City: "C ", PostalCode: "1"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Main 1", first.Street)
	assert.Equal(t, "C", first.City)

	second, created, err := resolver.Resolve(f.ctx, user.ID, AddressInput{Street: "Main 1", District: "D", City: "C", PostalCode: "1"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = resolver.Resolve(f.ctx, user.ID, AddressInput{Street: "   ", District: "D", City: "C", PostalCode: "1"})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "street")
	assert.Equal(t, 1, f.store.Counts()["addresses"])
}
