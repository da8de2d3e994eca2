package handlers

import (
	"bytes"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProductHandler manages product CRUD.
type ProductHandler struct {
	catalog *services.CatalogService
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ListProducts returns paginated products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	categoryID, err := parseUUIDQuery(c, "category_id")
	if err != nil {
		return err
	}
	subCategoryID, err := parseUUIDQuery(c, "subcategory_id")
	if err != nil {
		return err
	}

	products, total, err := h.catalog.ListProducts(c.UserContext(), repository.ProductQuery{
		Search:        strings.TrimSpace(c.Query("search")),
		Ordering:      repository.ParseProductOrdering(c.Query("ordering")),
		CategoryID:    categoryID,
		SubCategoryID: subCategoryID,
		Limit:         pg.Limit,
		Offset:        pg.Offset,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       productListView(products),
		"pagination": pg.Meta(total),
	})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return sendData(c, productView(product))
}

type productRequest struct {
	SubCategoryID *string          `json:"sub_category_id" validate:"omitempty,uuid"`
	Name          *string          `json:"name" validate:"omitempty,max=255"`
	Description   *string          `json:"description"`
	Cost          *decimal.Decimal `json:"cost"`
	Weight        *decimal.Decimal `json:"weight"`
	WeightUnit    *string          `json:"weight_unit" validate:"omitempty,oneof=kg dona"`
	Discount      *decimal.Decimal `json:"discount"`
	Image         *string          `json:"image"`
}

func (r productRequest) input() services.ProductInput {
	input := services.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Cost:        r.Cost,
		Weight:      r.Weight,
		Discount:    r.Discount,
		Image:       r.Image,
	}
	if r.SubCategoryID != nil {
		id := uuid.MustParse(*r.SubCategoryID)
		input.SubCategoryID = &id
	}
	if r.WeightUnit != nil {
		unit := models.WeightUnit(*r.WeightUnit)
		input.WeightUnit = &unit
	}
	return input
}

// CreateProduct stores a product owned by the caller.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), actor.ID, req.input())
	if err != nil {
		return err
	}
	return sendCreated(c, productView(product))
}

// UpdateProduct edits a product created by the caller.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), actor.ID, id, req.input())
	if err != nil {
		return err
	}
	return sendData(c, productView(product))
}

// DeleteProduct removes a product created by the caller.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.catalog.DeleteProduct(c.UserContext(), actor.ID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportProducts downloads the catalogue as an xlsx workbook.
func (h *ProductHandler) ExportProducts(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.catalog.ExportProducts(c.UserContext(), actor, &buf); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	return c.Send(buf.Bytes())
}

// RegisterProductRoutes mounts product endpoints. Reads are public; writes
// go through requireAuth.
func (h *ProductHandler) RegisterProductRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Get("/", h.ListProducts)
	router.Get("/export", requireAuth, middleware.RequireStaff(), h.ExportProducts)
	router.Get("/:id", h.GetProduct)
	router.Post("/", requireAuth, h.CreateProduct)
	router.Put("/:id", requireAuth, h.UpdateProduct)
	router.Delete("/:id", requireAuth, h.DeleteProduct)
}
