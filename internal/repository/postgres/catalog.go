package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

type categoryRepository struct {
	db *gorm.DB
}

func (r categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error
	return categories, translate(err)
}

func (r categoryRepository) Get(ctx context.Context, id uuid.UUID) (models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Preload("SubCategories").First(&category, "id = ?", id).Error
	return category, translate(err)
}

func (r categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error)
}

func (r categoryRepository) Save(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error)
}

func (r categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type subCategoryRepository struct {
	db *gorm.DB
}

func (r subCategoryRepository) List(ctx context.Context, query repository.SubCategoryQuery) ([]models.SubCategory, error) {
	q := r.db.WithContext(ctx).Preload("Category").Order("name asc")
	if query.CategoryID != nil {
		q = q.Where("category_id = ?", *query.CategoryID)
	}
	var subs []models.SubCategory
	err := q.Find(&subs).Error
	return subs, translate(err)
}

func (r subCategoryRepository) Get(ctx context.Context, id uuid.UUID) (models.SubCategory, error) {
	var sub models.SubCategory
	err := r.db.WithContext(ctx).Preload("Category").First(&sub, "id = ?", id).Error
	return sub, translate(err)
}

func (r subCategoryRepository) Create(ctx context.Context, sub *models.SubCategory) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(sub).Error)
}

func (r subCategoryRepository) Save(ctx context.Context, sub *models.SubCategory) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(sub).Error)
}

func (r subCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.SubCategory{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type productRepository struct {
	db *gorm.DB
}

func (r productRepository) List(ctx context.Context, query repository.ProductQuery) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if query.CategoryID != nil {
		q = q.Joins("JOIN sub_categories ON sub_categories.id = products.sub_category_id").
			Where("sub_categories.category_id = ?", *query.CategoryID)
	}
	if query.SubCategoryID != nil {
		q = q.Where("products.sub_category_id = ?", *query.SubCategoryID)
	}
	for _, term := range query.SearchTerms() {
		pattern := likePattern(term)
		q = q.Where("(products.name ILIKE ? OR products.description ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	ordering := query.EffectiveOrdering()
	q = q.Order(clause.OrderByColumn{
		Column: clause.Column{Table: "products", Name: ordering.Column()},
		Desc:   ordering.Descending(),
	})
	if query.Limit > 0 {
		q = q.Limit(query.Limit).Offset(query.Offset)
	}

	var products []models.Product
	if err := q.Preload("SubCategory.Category").Find(&products).Error; err != nil {
		return nil, 0, translate(err)
	}
	return products, total, nil
}

func (r productRepository) Get(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("SubCategory.Category").First(&product, "id = ?", id).Error
	return product, translate(err)
}

func (r productRepository) Create(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error)
}

func (r productRepository) Save(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error)
}

func (r productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
