package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

func TestCategoryWritesRequireStaff(t *testing.T) {
	f := newFixture(t)
	catalog := NewCatalogService(f.store)
	customer := f.user(t, "alice", false)
	staff := f.user(t, "admin", true)

	_, err := catalog.CreateCategory(f.ctx, customer, CategoryInput{Name: strPtr("Fruit")})
	assert.True(t, apperr.Is(err, apperr.KindPermission))

	category, err := catalog.CreateCategory(f.ctx, staff, CategoryInput{Name: strPtr("Fruit")})
	require.NoError(t, err)

	_, err = catalog.CreateCategory(f.ctx, staff, CategoryInput{Name: strPtr("Fruit")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	sub, err := catalog.CreateSubCategory(f.ctx, staff, SubCategoryInput{CategoryID: &category.ID, Name: strPtr("Citrus")})
	require.NoError(t, err)
	require.NotNil(t, sub.Category)
	assert.Equal(t, "Fruit", sub.Category.Name)

	missing := uuid.New()
	_, err = catalog.CreateSubCategory(f.ctx, staff, SubCategoryInput{CategoryID: &missing, Name: strPtr("x")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, catalog.DeleteCategory(f.ctx, staff, category.ID))
	assert.Zero(t, f.store.Counts()["sub_categories"])
}

func TestProductWritesRequireOwnership(t *testing.T) {
	f := newFixture(t)
	catalog := NewCatalogService(f.store)
	owner := f.user(t, "alice", false)
	other := f.user(t, "bob", false)
	seed := f.product(t, owner.ID, "Seed", 100)

	cost := decimal.RequireFromString("15000.50")
	product, err := catalog.CreateProduct(f.ctx, owner.ID, ProductInput{
		SubCategoryID: &seed.SubCategoryID,
		Name:          strPtr("Apple"),
		Cost:          &cost,
	})
	require.NoError(t, err)
	require.NotNil(t, product.CreatedByID)
	assert.Equal(t, owner.ID, *product.CreatedByID)
	assert.Equal(t, models.WeightUnitKilogram, product.WeightUnit)

	_, err = catalog.UpdateProduct(f.ctx, other.ID, product.ID, ProductInput{Name: strPtr("Stolen")})
	assert.True(t, apperr.Is(err, apperr.KindPermission))
	assert.True(t, apperr.Is(catalog.DeleteProduct(f.ctx, other.ID, product.ID), apperr.KindPermission))

	updated, err := catalog.UpdateProduct(f.ctx, owner.ID, product.ID, ProductInput{Name: strPtr("Green apple")})
	require.NoError(t, err)
	assert.Equal(t, "Green apple", updated.Name)
	assert.True(t, cost.Equal(updated.Cost))

	badUnit := models.WeightUnit("ton")
	_, err = catalog.UpdateProduct(f.ctx, owner.ID, product.ID, ProductInput{WeightUnit: &badUnit})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, catalog.DeleteProduct(f.ctx, owner.ID, product.ID))
	_, err = catalog.GetProduct(f.ctx, product.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListProductsFiltersAndOrders(t *testing.T) {
	f := newFixture(t)
	catalog := NewCatalogService(f.store)
	owner := f.user(t, "alice", false)

	cheap := f.product(t, owner.ID, "Red apple", 1000)
	time.Sleep(time.Millisecond)
	dear := f.product(t, owner.ID, "Green apple", 5000)
	time.Sleep(time.Millisecond)
	f.product(t, owner.ID, "Pear", 3000)

	products, total, err := catalog.ListProducts(f.ctx, repository.ProductQuery{Search: "APPLE", Ordering: repository.OrderByCostDesc})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, products, 2)
	assert.Equal(t, dear.ID, products[0].ID)

	products, _, err = catalog.ListProducts(f.ctx, repository.ProductQuery{Search: "red apple"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, cheap.ID, products[0].ID)

	products, _, err = catalog.ListProducts(f.ctx, repository.ProductQuery{Ordering: "bogus"})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Pear", products[0].Name, "unknown ordering falls back to newest first")

	sub, err := catalog.GetSubCategory(f.ctx, cheap.SubCategoryID)
	require.NoError(t, err)
	products, total, err = catalog.ListProducts(f.ctx, repository.ProductQuery{CategoryID: &sub.CategoryID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, cheap.ID, products[0].ID)

	products, total, err = catalog.ListProducts(f.ctx, repository.ProductQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, products, 1)
}

func TestExportProducts(t *testing.T) {
	f := newFixture(t)
	catalog := NewCatalogService(f.store)
	owner := f.user(t, "alice", false)
	staff := f.user(t, "admin", true)
	f.product(t, owner.ID, "Apple", 1000)

	var buf bytes.Buffer
	assert.True(t, apperr.Is(catalog.ExportProducts(f.ctx, owner, &buf), apperr.KindPermission))

	require.NoError(t, catalog.ExportProducts(f.ctx, staff, &buf))
	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Apple", sheet.Rows[1].Cells[1].Value)
}
