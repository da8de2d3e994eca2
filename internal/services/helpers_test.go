package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/cache"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository/memory"
	"github.com/example/storefront/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

type fixture struct {
	ctx   context.Context
	store *memory.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return fixture{ctx: context.Background(), store: memory.NewStore()}
}

func (f fixture) auth() *AuthService {
	return NewAuthService(f.store, cache.NewMemoryRevocationStore(), testConfig())
}

func (f fixture) user(t *testing.T, username string, staff bool) models.User {
	t.Helper()
	hash, err := utils.HashPassword("secret-pass")
	require.NoError(t, err)
	user := models.User{Username: username, PasswordHash: hash, IsActive: true, IsStaff: staff}
	require.NoError(t, f.store.Users().Create(f.ctx, &user))
	return user
}

func (f fixture) product(t *testing.T, owner uuid.UUID, name string, cost int64) models.Product {
	t.Helper()
	category := models.Category{Name: "cat-" + uuid.NewString()}
	require.NoError(t, f.store.Categories().Create(f.ctx, &category))
	sub := models.SubCategory{CategoryID: category.ID, Name: "sub"}
	require.NoError(t, f.store.SubCategories().Create(f.ctx, &sub))
	product := models.Product{
		SubCategoryID: sub.ID,
		Name:          name,
		Cost:          decimal.NewFromInt(cost),
		WeightUnit:    models.WeightUnitKilogram,
		CreatedByID:   &owner,
	}
	require.NoError(t, f.store.Products().Create(f.ctx, &product))
	return product
}

func strPtr(s string) *string { return &s }
