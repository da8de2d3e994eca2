package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/services"
)

// CatalogHandler manages categories and subcategories.
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type categoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

func (r categoryRequest) input() services.CategoryInput {
	return services.CategoryInput{Name: r.Name, Description: r.Description, Image: r.Image}
}

// ListCategories returns every category. The list is not paginated.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(categories))
	for _, category := range categories {
		data = append(data, categoryView(category))
	}
	return sendData(c, data)
}

func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	category, err := h.catalog.GetCategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return sendData(c, categoryDetailView(category))
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	category, err := h.catalog.CreateCategory(c.UserContext(), actor, req.input())
	if err != nil {
		return err
	}
	return sendCreated(c, categoryView(category))
}

func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	category, err := h.catalog.UpdateCategory(c.UserContext(), actor, id, req.input())
	if err != nil {
		return err
	}
	return sendData(c, categoryView(category))
}

// DeleteCategory removes a category with its subcategories and products.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.catalog.DeleteCategory(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type subCategoryRequest struct {
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid"`
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

func (r subCategoryRequest) input() services.SubCategoryInput {
	input := services.SubCategoryInput{Name: r.Name, Description: r.Description, Image: r.Image}
	if r.CategoryID != nil {
		id := uuid.MustParse(*r.CategoryID)
		input.CategoryID = &id
	}
	return input
}

// ListSubCategories returns subcategories, optionally of one category.
func (h *CatalogHandler) ListSubCategories(c *fiber.Ctx) error {
	categoryID, err := parseUUIDQuery(c, "category_id")
	if err != nil {
		return err
	}

	subs, err := h.catalog.ListSubCategories(c.UserContext(), repository.SubCategoryQuery{CategoryID: categoryID})
	if err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(subs))
	for _, sub := range subs {
		data = append(data, subCategoryView(sub))
	}
	return sendData(c, data)
}

func (h *CatalogHandler) GetSubCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	sub, err := h.catalog.GetSubCategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return sendData(c, subCategoryView(sub))
}

func (h *CatalogHandler) CreateSubCategory(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req subCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sub, err := h.catalog.CreateSubCategory(c.UserContext(), actor, req.input())
	if err != nil {
		return err
	}
	return sendCreated(c, subCategoryView(sub))
}

func (h *CatalogHandler) UpdateSubCategory(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req subCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sub, err := h.catalog.UpdateSubCategory(c.UserContext(), actor, id, req.input())
	if err != nil {
		return err
	}
	return sendData(c, subCategoryView(sub))
}

func (h *CatalogHandler) DeleteSubCategory(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.catalog.DeleteSubCategory(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
