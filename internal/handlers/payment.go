package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
)

// PaymentHandler records and lists the caller's payments.
type PaymentHandler struct {
	payments *services.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type createPaymentRequest struct {
	OrderID string          `json:"order_id" validate:"required,uuid"`
	Amount  decimal.Decimal `json:"amount"`
	Method  string          `json:"payment_method" validate:"required,oneof=card bank_transfer cash"`
}

func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createPaymentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	payment, err := h.payments.Create(c.UserContext(), user.ID, services.PaymentInput{
		OrderID: uuid.MustParse(req.OrderID),
		Amount:  req.Amount,
		Method:  models.PaymentMethod(req.Method),
	})
	if err != nil {
		return err
	}
	return sendCreated(c, paymentView(payment))
}

func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	payments, err := h.payments.List(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(payments))
	for _, payment := range payments {
		data = append(data, paymentView(payment))
	}
	return sendData(c, data)
}
