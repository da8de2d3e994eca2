package services

import (
	"context"
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var productExportHeaders = []string{
	"ID", "Name", "Description", "Category", "SubCategory",
	"Cost", "Discount", "SalePrice", "Weight", "WeightUnit",
	"Image", "CreatedBy", "CreatedAt", "UpdatedAt",
}

// ExportProducts writes the whole catalogue as an xlsx workbook to w. Only
// staff may export.
func (s *CatalogService) ExportProducts(ctx context.Context, actor models.User, w io.Writer) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	products, _, err := s.store.Products().List(ctx, repository.ProductQuery{Ordering: repository.OrderByCreatedAtAsc})
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range productExportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		var categoryName, subCategoryName, createdBy string
		if p.SubCategory != nil {
			subCategoryName = p.SubCategory.Name
			if p.SubCategory.Category != nil {
				categoryName = p.SubCategory.Category.Name
			}
		}
		if p.CreatedByID != nil {
			createdBy = p.CreatedByID.String()
		}

		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID.String())
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(categoryName)
		row.AddCell().SetValue(subCategoryName)
		row.AddCell().SetFloat(p.Cost.InexactFloat64())
		row.AddCell().SetFloat(p.Discount.InexactFloat64())
		row.AddCell().SetFloat(p.SalePrice().InexactFloat64())
		row.AddCell().SetFloat(p.Weight.InexactFloat64())
		row.AddCell().SetValue(string(p.WeightUnit))
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(createdBy)
		row.AddCell().SetValue(p.CreatedAt.Format(exportTimeLayout))
		row.AddCell().SetValue(p.UpdatedAt.Format(exportTimeLayout))
	}

	return file.Write(w)
}
