package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

const msgNoPermission = "you do not have permission to perform this action"

// CategoryInput carries category fields. Nil fields are left unchanged on
// update.
type CategoryInput struct {
	Name        *string
	Description *string
	Image       *string
}

// SubCategoryInput carries subcategory fields. Nil fields are left unchanged
// on update.
type SubCategoryInput struct {
	CategoryID  *uuid.UUID
	Name        *string
	Description *string
	Image       *string
}

// ProductInput carries product fields. Nil fields are left unchanged on
// update.
type ProductInput struct {
	SubCategoryID *uuid.UUID
	Name          *string
	Description   *string
	Cost          *decimal.Decimal
	Weight        *decimal.Decimal
	WeightUnit    *models.WeightUnit
	Discount      *decimal.Decimal
	Image         *string
}

// CatalogService manages categories, subcategories and products.
type CatalogService struct {
	store repository.Store
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

func requireStaff(actor models.User) error {
	if !actor.IsStaff {
		return apperr.Permission(msgNoPermission)
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(what + " not found")
	}
	return err
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

// ListCategories returns every category ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.Categories().List(ctx)
}

// GetCategory returns a category together with its subcategories.
func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (models.Category, error) {
	category, err := s.store.Categories().Get(ctx, id)
	return category, notFound(err, "category")
}

func (s *CatalogService) CreateCategory(ctx context.Context, actor models.User, input CategoryInput) (models.Category, error) {
	if err := requireStaff(actor); err != nil {
		return models.Category{}, err
	}

	var category models.Category
	applyCategory(&category, input)
	if category.Name == "" {
		return models.Category{}, apperr.FieldValidation("name", "this field is required")
	}

	err := s.store.Categories().Create(ctx, &category)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Category{}, apperr.FieldValidation("name", "category with this name already exists")
	}
	return category, err
}

func (s *CatalogService) UpdateCategory(ctx context.Context, actor models.User, id uuid.UUID, input CategoryInput) (models.Category, error) {
	if err := requireStaff(actor); err != nil {
		return models.Category{}, err
	}

	category, err := s.store.Categories().Get(ctx, id)
	if err != nil {
		return models.Category{}, notFound(err, "category")
	}
	category.SubCategories = nil
	applyCategory(&category, input)
	if category.Name == "" {
		return models.Category{}, apperr.FieldValidation("name", "this field may not be blank")
	}

	err = s.store.Categories().Save(ctx, &category)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Category{}, apperr.FieldValidation("name", "category with this name already exists")
	}
	return category, notFound(err, "category")
}

// DeleteCategory removes the category with all of its subcategories and
// products.
func (s *CatalogService) DeleteCategory(ctx context.Context, actor models.User, id uuid.UUID) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return notFound(s.store.Categories().Delete(ctx, id), "category")
}

func applyCategory(category *models.Category, input CategoryInput) {
	setString(&category.Name, input.Name)
	setString(&category.Description, input.Description)
	setString(&category.Image, input.Image)
}

func (s *CatalogService) ListSubCategories(ctx context.Context, query repository.SubCategoryQuery) ([]models.SubCategory, error) {
	return s.store.SubCategories().List(ctx, query)
}

func (s *CatalogService) GetSubCategory(ctx context.Context, id uuid.UUID) (models.SubCategory, error) {
	sub, err := s.store.SubCategories().Get(ctx, id)
	return sub, notFound(err, "subcategory")
}

func (s *CatalogService) CreateSubCategory(ctx context.Context, actor models.User, input SubCategoryInput) (models.SubCategory, error) {
	if err := requireStaff(actor); err != nil {
		return models.SubCategory{}, err
	}
	if input.CategoryID == nil {
		return models.SubCategory{}, apperr.FieldValidation("category_id", "this field is required")
	}

	var sub models.SubCategory
	if err := s.applySubCategory(ctx, &sub, input); err != nil {
		return models.SubCategory{}, err
	}
	if sub.Name == "" {
		return models.SubCategory{}, apperr.FieldValidation("name", "this field is required")
	}

	if err := s.store.SubCategories().Create(ctx, &sub); err != nil {
		return models.SubCategory{}, fmt.Errorf("create subcategory: %w", err)
	}
	return s.GetSubCategory(ctx, sub.ID)
}

func (s *CatalogService) UpdateSubCategory(ctx context.Context, actor models.User, id uuid.UUID, input SubCategoryInput) (models.SubCategory, error) {
	if err := requireStaff(actor); err != nil {
		return models.SubCategory{}, err
	}

	sub, err := s.store.SubCategories().Get(ctx, id)
	if err != nil {
		return models.SubCategory{}, notFound(err, "subcategory")
	}
	sub.Category = nil
	sub.Products = nil
	if err := s.applySubCategory(ctx, &sub, input); err != nil {
		return models.SubCategory{}, err
	}
	if sub.Name == "" {
		return models.SubCategory{}, apperr.FieldValidation("name", "this field may not be blank")
	}

	if err := s.store.SubCategories().Save(ctx, &sub); err != nil {
		return models.SubCategory{}, notFound(err, "subcategory")
	}
	return s.GetSubCategory(ctx, sub.ID)
}

func (s *CatalogService) DeleteSubCategory(ctx context.Context, actor models.User, id uuid.UUID) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return notFound(s.store.SubCategories().Delete(ctx, id), "subcategory")
}

func (s *CatalogService) applySubCategory(ctx context.Context, sub *models.SubCategory, input SubCategoryInput) error {
	if input.CategoryID != nil {
		if _, err := s.store.Categories().Get(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.FieldValidation("category_id", "category does not exist")
			}
			return err
		}
		sub.CategoryID = *input.CategoryID
	}
	setString(&sub.Name, input.Name)
	setString(&sub.Description, input.Description)
	setString(&sub.Image, input.Image)
	return nil
}

// ListProducts runs a product query and returns one page with the total
// number of matches.
func (s *CatalogService) ListProducts(ctx context.Context, query repository.ProductQuery) ([]models.Product, int64, error) {
	return s.store.Products().List(ctx, query)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	product, err := s.store.Products().Get(ctx, id)
	return product, notFound(err, "product")
}

// CreateProduct stores a new product owned by actorID.
func (s *CatalogService) CreateProduct(ctx context.Context, actorID uuid.UUID, input ProductInput) (models.Product, error) {
	if input.SubCategoryID == nil {
		return models.Product{}, apperr.FieldValidation("sub_category_id", "this field is required")
	}
	if input.Cost == nil {
		return models.Product{}, apperr.FieldValidation("cost", "this field is required")
	}

	product := models.Product{
		WeightUnit:  models.WeightUnitKilogram,
		CreatedByID: &actorID,
	}
	if err := s.applyProduct(ctx, &product, input); err != nil {
		return models.Product{}, err
	}
	if product.Name == "" {
		return models.Product{}, apperr.FieldValidation("name", "this field is required")
	}

	if err := s.store.Products().Create(ctx, &product); err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	return s.GetProduct(ctx, product.ID)
}

// UpdateProduct applies input to a product created by actorID.
func (s *CatalogService) UpdateProduct(ctx context.Context, actorID, id uuid.UUID, input ProductInput) (models.Product, error) {
	product, err := s.store.Products().Get(ctx, id)
	if err != nil {
		return models.Product{}, notFound(err, "product")
	}
	if !product.OwnedBy(actorID) {
		return models.Product{}, apperr.Permission(msgNoPermission)
	}

	product.SubCategory = nil
	product.CreatedBy = nil
	if err := s.applyProduct(ctx, &product, input); err != nil {
		return models.Product{}, err
	}
	if product.Name == "" {
		return models.Product{}, apperr.FieldValidation("name", "this field may not be blank")
	}

	if err := s.store.Products().Save(ctx, &product); err != nil {
		return models.Product{}, notFound(err, "product")
	}
	return s.GetProduct(ctx, product.ID)
}

// DeleteProduct removes a product created by actorID.
func (s *CatalogService) DeleteProduct(ctx context.Context, actorID, id uuid.UUID) error {
	product, err := s.store.Products().Get(ctx, id)
	if err != nil {
		return notFound(err, "product")
	}
	if !product.OwnedBy(actorID) {
		return apperr.Permission(msgNoPermission)
	}
	return notFound(s.store.Products().Delete(ctx, id), "product")
}

func (s *CatalogService) applyProduct(ctx context.Context, product *models.Product, input ProductInput) error {
	fields := map[string]string{}

	if input.SubCategoryID != nil {
		if _, err := s.store.SubCategories().Get(ctx, *input.SubCategoryID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			fields["sub_category_id"] = "subcategory does not exist"
		} else {
			product.SubCategoryID = *input.SubCategoryID
		}
	}
	if input.Cost != nil {
		if input.Cost.IsNegative() {
			fields["cost"] = "ensure this value is greater than or equal to 0"
		}
		product.Cost = input.Cost.Round(2)
	}
	if input.Weight != nil {
		if input.Weight.IsNegative() {
			fields["weight"] = "ensure this value is greater than or equal to 0"
		}
		product.Weight = input.Weight.Round(2)
	}
	if input.WeightUnit != nil {
		if !input.WeightUnit.Valid() {
			fields["weight_unit"] = fmt.Sprintf("%q is not a valid choice", *input.WeightUnit)
		}
		product.WeightUnit = *input.WeightUnit
	}
	if input.Discount != nil {
		if input.Discount.IsNegative() || input.Discount.GreaterThan(decimal.NewFromInt(100)) {
			fields["discount"] = "ensure this value is between 0 and 100"
		}
		product.Discount = input.Discount.Round(2)
	}
	setString(&product.Name, input.Name)
	setString(&product.Description, input.Description)
	setString(&product.Image, input.Image)

	if len(fields) > 0 {
		return apperr.Validation("invalid product", fields)
	}
	return nil
}
