package payment

import (
	"encoding/json"
	"errors"
	"log/slog"

	"bizledger-backend/internal/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/razorpay/razorpay-go/utils"
)

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// WebhookHandler receives gateway callbacks. It only attaches the gateway
// payment id to the transaction matched by order id; the balance was applied
// when the transaction was created and is never touched here.
func WebhookHandler(svc *ledger.Service, webhookSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if webhookSecret == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "webhook secret not configured")
		}

		signature := c.Get("X-Razorpay-Signature")
		if !utils.VerifyWebhookSignature(string(c.Body()), signature, webhookSecret) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid webhook signature")
		}

		var event webhookEvent
		if err := json.Unmarshal(c.Body(), &event); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid webhook payload")
		}

		if event.Event != "payment.captured" && event.Event != "payment.authorized" {
			return c.JSON(fiber.Map{"status": "ignored"})
		}

		entity := event.Payload.Payment.Entity
		if entity.OrderID == "" || entity.ID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "webhook payload missing payment entity")
		}

		txn, err := svc.AttachGatewayPayment(entity.OrderID, entity.ID)
		if err != nil {
			if errors.Is(err, ledger.ErrTransactionNotFound) {
				// No local transaction for this order. Acknowledge anyway,
				// the gateway would otherwise keep retrying forever.
				slog.Warn("webhook for unknown order", "order_id", entity.OrderID)
				return c.JSON(fiber.Map{"status": "ignored"})
			}
			slog.Error("webhook processing failed", "order_id", entity.OrderID, "err", err)
			return fiber.NewError(fiber.StatusInternalServerError, "could not process webhook")
		}

		slog.Info("gateway payment attached",
			"transaction_id", txn.TransactionID, "payment_id", entity.ID)
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
