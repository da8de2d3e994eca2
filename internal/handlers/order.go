package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  *int   `json:"quantity" validate:"omitempty,gt=0"`
}

// createOrderRequest has no owner field; any "user" key in the body is
// dropped by the decoder.
type createOrderRequest struct {
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress *addressRequest    `json:"delivery_address" validate:"omitempty"`
}

// CreateOrder allows authenticated users to place an order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	input := services.PlaceOrderInput{Items: make([]services.OrderItemInput, 0, len(req.Items))}
	for _, item := range req.Items {
		quantity := 1
		if item.Quantity != nil {
			quantity = *item.Quantity
		}
		input.Items = append(input.Items, services.OrderItemInput{
			ProductID: uuid.MustParse(item.ProductID),
			Quantity:  quantity,
		})
	}
	if req.DeliveryAddress != nil {
		address := req.DeliveryAddress.input()
		input.DeliveryAddress = &address
	}

	order, err := h.orders.PlaceOrder(c.UserContext(), user.ID, input)
	if err != nil {
		return err
	}
	return sendCreated(c, orderView(order))
}

// ListOrders returns the caller's orders, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.ListOrders(c.UserContext(), repository.OrderQuery{
		UserID: user.ID,
		Status: c.Query("status"),
		Limit:  pg.Limit,
		Offset: pg.Offset,
	})
	if err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(orders))
	for _, order := range orders {
		data = append(data, orderView(order))
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": pg.Meta(total),
	})
}

// GetOrder returns one of the caller's orders.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	order, err := h.orders.GetOrder(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}
	return sendData(c, orderView(order))
}

// DeleteOrder removes one of the caller's orders.
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.orders.DeleteOrder(c.UserContext(), user.ID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
