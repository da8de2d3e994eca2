package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
)

// Projection functions turn models into response bodies. Responses never
// serialize models directly.

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// userView is the one canonical user field set.
func userView(u models.User) fiber.Map {
	return fiber.Map{
		"id":         u.ID,
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"phone":      u.Phone,
		"is_staff":   u.IsStaff,
	}
}

// sessionUserView is the compact user block returned on login.
func sessionUserView(u models.User) fiber.Map {
	return fiber.Map{
		"id":    u.ID,
		"name":  u.DisplayName(),
		"email": u.Email,
		"phone": u.Phone,
	}
}

func profileView(p services.Profile) fiber.Map {
	view := userView(p.User)

	addresses := make([]fiber.Map, 0, len(p.Addresses))
	for _, a := range p.Addresses {
		addresses = append(addresses, addressView(a))
	}
	payments := make([]fiber.Map, 0, len(p.Payments))
	for _, pm := range p.Payments {
		payments = append(payments, paymentView(pm))
	}
	orders := p.OrderIDs
	if orders == nil {
		orders = []uuid.UUID{}
	}

	view["addresses"] = addresses
	view["payments"] = payments
	view["orders"] = orders
	return view
}

func addressView(a models.Address) fiber.Map {
	return fiber.Map{
		"id":                    a.ID,
		"street":                a.Street,
		"district":              a.District,
		"region":                a.Region,
		"city":                  a.City,
		"postal_code":           a.PostalCode,
		"delivery_instructions": a.DeliveryInstructions,
		"is_default":            a.IsDefault,
		"is_delivery":           a.IsDelivery,
	}
}

func addressListView(addresses []models.Address) []fiber.Map {
	views := make([]fiber.Map, 0, len(addresses))
	for _, a := range addresses {
		views = append(views, addressView(a))
	}
	return views
}

func categoryView(c models.Category) fiber.Map {
	return fiber.Map{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
		"image":       c.Image,
	}
}

func categoryDetailView(c models.Category) fiber.Map {
	view := categoryView(c)
	subs := make([]fiber.Map, 0, len(c.SubCategories))
	for _, s := range c.SubCategories {
		subs = append(subs, subCategoryView(s))
	}
	view["subcategories"] = subs
	return view
}

func subCategoryView(s models.SubCategory) fiber.Map {
	view := fiber.Map{
		"id":          s.ID,
		"category_id": s.CategoryID,
		"name":        s.Name,
		"description": s.Description,
		"image":       s.Image,
	}
	if s.Category != nil {
		view["category"] = categoryView(*s.Category)
	}
	return view
}

func productView(p models.Product) fiber.Map {
	view := fiber.Map{
		"id":              p.ID,
		"sub_category_id": p.SubCategoryID,
		"name":            p.Name,
		"description":     p.Description,
		"cost":            money(p.Cost),
		"sale_price":      money(p.SalePrice()),
		"weight":          money(p.Weight),
		"weight_unit":     p.WeightUnit,
		"discount":        money(p.Discount),
		"image":           p.Image,
		"created_by":      p.CreatedByID,
		"created_at":      p.CreatedAt,
	}
	if p.SubCategory != nil {
		view["subcategory"] = subCategoryView(*p.SubCategory)
	}
	return view
}

func productListView(products []models.Product) []fiber.Map {
	views := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		views = append(views, productView(p))
	}
	return views
}

func orderView(o models.Order) fiber.Map {
	items := make([]fiber.Map, 0, len(o.Items))
	for _, item := range o.Items {
		itemView := fiber.Map{
			"id":         item.ID,
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
		}
		if item.Product != nil {
			itemView["product"] = fiber.Map{
				"id":         item.Product.ID,
				"name":       item.Product.Name,
				"cost":       money(item.Product.Cost),
				"sale_price": money(item.Product.SalePrice()),
			}
		}
		items = append(items, itemView)
	}

	view := fiber.Map{
		"id":                  o.ID,
		"status":              o.Status,
		"order_date":          o.OrderDate,
		"delivery_address_id": o.DeliveryAddressID,
		"delivery_address":    nil,
		"items":               items,
	}
	if o.DeliveryAddress != nil {
		view["delivery_address"] = addressView(*o.DeliveryAddress)
	}
	return view
}

func paymentView(p models.Payment) fiber.Map {
	return fiber.Map{
		"id":             p.ID,
		"order_id":       p.OrderID,
		"amount":         money(p.Amount),
		"payment_method": p.Method,
		"status":         p.Status,
		"payment_date":   p.PaymentDate,
	}
}
