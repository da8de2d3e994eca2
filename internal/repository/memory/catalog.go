package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

type categoryRepository struct{ s *Store }

func (r categoryRepository) List(_ context.Context) ([]models.Category, error) {
	defer r.s.lock()()
	categories := make([]models.Category, 0, len(r.s.data.categories))
	for _, category := range r.s.data.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r categoryRepository) Get(_ context.Context, id uuid.UUID) (models.Category, error) {
	defer r.s.lock()()
	category, ok := r.s.data.categories[id]
	if !ok {
		return models.Category{}, repository.ErrNotFound
	}
	for _, sub := range r.s.data.subCategories {
		if sub.CategoryID == id {
			category.SubCategories = append(category.SubCategories, sub)
		}
	}
	sort.Slice(category.SubCategories, func(i, j int) bool {
		return category.SubCategories[i].Name < category.SubCategories[j].Name
	})
	return category, nil
}

func (r categoryRepository) Create(_ context.Context, category *models.Category) error {
	defer r.s.lock()()
	return r.put(category)
}

func (r categoryRepository) Save(_ context.Context, category *models.Category) error {
	defer r.s.lock()()
	if _, ok := r.s.data.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	return r.put(category)
}

func (r categoryRepository) put(category *models.Category) error {
	for id, existing := range r.s.data.categories {
		if id != category.ID && existing.Name == category.Name {
			return repository.ErrDuplicate
		}
	}
	r.s.stamp(&category.BaseModel)
	stored := *category
	stored.SubCategories = nil
	r.s.data.categories[stored.ID] = stored
	return nil
}

func (r categoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.s.lock()()
	if _, ok := r.s.data.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.categories, id)
	for subID, sub := range r.s.data.subCategories {
		if sub.CategoryID == id {
			r.s.deleteSubCategory(subID)
		}
	}
	return nil
}

type subCategoryRepository struct{ s *Store }

func (r subCategoryRepository) List(_ context.Context, query repository.SubCategoryQuery) ([]models.SubCategory, error) {
	defer r.s.lock()()
	var subs []models.SubCategory
	for _, sub := range r.s.data.subCategories {
		if query.CategoryID != nil && sub.CategoryID != *query.CategoryID {
			continue
		}
		subs = append(subs, r.s.withCategory(sub))
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Name < subs[j].Name })
	return subs, nil
}

func (r subCategoryRepository) Get(_ context.Context, id uuid.UUID) (models.SubCategory, error) {
	defer r.s.lock()()
	sub, ok := r.s.data.subCategories[id]
	if !ok {
		return models.SubCategory{}, repository.ErrNotFound
	}
	return r.s.withCategory(sub), nil
}

func (r subCategoryRepository) Create(_ context.Context, sub *models.SubCategory) error {
	defer r.s.lock()()
	return r.put(sub)
}

func (r subCategoryRepository) Save(_ context.Context, sub *models.SubCategory) error {
	defer r.s.lock()()
	if _, ok := r.s.data.subCategories[sub.ID]; !ok {
		return repository.ErrNotFound
	}
	return r.put(sub)
}

func (r subCategoryRepository) put(sub *models.SubCategory) error {
	if _, ok := r.s.data.categories[sub.CategoryID]; !ok {
		return repository.ErrNotFound
	}
	r.s.stamp(&sub.BaseModel)
	stored := *sub
	stored.Category = nil
	stored.Products = nil
	r.s.data.subCategories[stored.ID] = stored
	return nil
}

func (r subCategoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.s.lock()()
	if _, ok := r.s.data.subCategories[id]; !ok {
		return repository.ErrNotFound
	}
	r.s.deleteSubCategory(id)
	return nil
}

type productRepository struct{ s *Store }

func (r productRepository) List(_ context.Context, query repository.ProductQuery) ([]models.Product, int64, error) {
	defer r.s.lock()()

	terms := query.SearchTerms()
	var matched []models.Product
	for _, product := range r.s.data.products {
		if query.SubCategoryID != nil && product.SubCategoryID != *query.SubCategoryID {
			continue
		}
		if query.CategoryID != nil {
			sub, ok := r.s.data.subCategories[product.SubCategoryID]
			if !ok || sub.CategoryID != *query.CategoryID {
				continue
			}
		}
		if !matchesTerms(product, terms) {
			continue
		}
		matched = append(matched, r.s.withSubCategory(product))
	}

	ordering := query.EffectiveOrdering()
	sort.SliceStable(matched, func(i, j int) bool {
		var cmp int
		if ordering.Column() == "cost" {
			cmp = matched[i].Cost.Cmp(matched[j].Cost)
		} else {
			cmp = matched[i].CreatedAt.Compare(matched[j].CreatedAt)
		}
		if ordering.Descending() {
			return cmp > 0
		}
		return cmp < 0
	})

	total := int64(len(matched))
	if query.Limit > 0 {
		matched = page(matched, query.Limit, query.Offset)
	}
	return matched, total, nil
}

func matchesTerms(product models.Product, terms []string) bool {
	name := strings.ToLower(product.Name)
	description := strings.ToLower(product.Description)
	for _, term := range terms {
		term = strings.ToLower(term)
		if !strings.Contains(name, term) && !strings.Contains(description, term) {
			return false
		}
	}
	return true
}

func (r productRepository) Get(_ context.Context, id uuid.UUID) (models.Product, error) {
	defer r.s.lock()()
	product, ok := r.s.data.products[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	return r.s.withSubCategory(product), nil
}

func (r productRepository) Create(_ context.Context, product *models.Product) error {
	defer r.s.lock()()
	return r.put(product)
}

func (r productRepository) Save(_ context.Context, product *models.Product) error {
	defer r.s.lock()()
	if _, ok := r.s.data.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	return r.put(product)
}

func (r productRepository) put(product *models.Product) error {
	if _, ok := r.s.data.subCategories[product.SubCategoryID]; !ok {
		return repository.ErrNotFound
	}
	r.s.stamp(&product.BaseModel)
	stored := *product
	stored.SubCategory = nil
	stored.CreatedBy = nil
	r.s.data.products[stored.ID] = stored
	return nil
}

func (r productRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.s.lock()()
	if _, ok := r.s.data.products[id]; !ok {
		return repository.ErrNotFound
	}
	r.s.deleteProduct(id)
	return nil
}

func (s *Store) withCategory(sub models.SubCategory) models.SubCategory {
	if category, ok := s.data.categories[sub.CategoryID]; ok {
		sub.Category = &category
	}
	return sub
}

func (s *Store) withSubCategory(product models.Product) models.Product {
	if sub, ok := s.data.subCategories[product.SubCategoryID]; ok {
		sub = s.withCategory(sub)
		product.SubCategory = &sub
	}
	return product
}

func (s *Store) deleteSubCategory(id uuid.UUID) {
	delete(s.data.subCategories, id)
	for productID, product := range s.data.products {
		if product.SubCategoryID == id {
			s.deleteProduct(productID)
		}
	}
}

func (s *Store) deleteProduct(id uuid.UUID) {
	delete(s.data.products, id)
	for itemID, item := range s.data.orderItems {
		if item.ProductID == id {
			delete(s.data.orderItems, itemID)
		}
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
