package payment

import (
	"bizledger-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

type CreateOrderRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
	Receipt  string  `json:"receipt" validate:"max=40"`
}

type CapturePaymentRequest struct {
	PaymentID string  `json:"payment_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency" validate:"omitempty,len=3"`
}

type RefundPaymentRequest struct {
	PaymentID string  `json:"payment_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

type CreateInvoiceRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Description   string  `json:"description" validate:"max=255"`
	CustomerName  string  `json:"customer_name" validate:"required,max=100"`
	CustomerEmail string  `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string  `json:"customer_phone" validate:"max=20"`
}

// POST /api/payments/orders
// Creates a standalone gateway order, e.g. for client-side checkout flows.
func CreateOrderHandler(gw *RazorpayGateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := web.BindAndValidate[CreateOrderRequest](c)
		if err != nil {
			return err
		}
		currency := body.Currency
		if currency == "" {
			currency = "INR"
		}
		orderID, err := gw.CreateOrder(c.Context(), body.Amount, currency, body.Receipt)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "gateway order creation failed")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order_id": orderID})
	}
}

// POST /api/payments/capture
func CapturePaymentHandler(gw *RazorpayGateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := web.BindAndValidate[CapturePaymentRequest](c)
		if err != nil {
			return err
		}
		currency := body.Currency
		if currency == "" {
			currency = "INR"
		}
		res, err := gw.CapturePayment(body.PaymentID, body.Amount, currency)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "gateway capture failed")
		}
		return c.JSON(res)
	}
}

// POST /api/payments/refund
func RefundPaymentHandler(gw *RazorpayGateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := web.BindAndValidate[RefundPaymentRequest](c)
		if err != nil {
			return err
		}
		res, err := gw.RefundPayment(body.PaymentID, body.Amount)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "gateway refund failed")
		}
		return c.JSON(res)
	}
}

// POST /api/payments/invoices
func CreateInvoiceHandler(gw *RazorpayGateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := web.BindAndValidate[CreateInvoiceRequest](c)
		if err != nil {
			return err
		}
		data := map[string]interface{}{
			"type":        "invoice",
			"description": body.Description,
			"customer": map[string]interface{}{
				"name":    body.CustomerName,
				"email":   body.CustomerEmail,
				"contact": body.CustomerPhone,
			},
			"line_items": []map[string]interface{}{
				{
					"name":   body.Description,
					"amount": paise(body.Amount),
					"qty":    1,
				},
			},
		}
		res, err := gw.CreateInvoice(data)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "gateway invoice creation failed")
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
