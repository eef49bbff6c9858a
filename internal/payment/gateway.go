package payment

import (
	"context"
	"fmt"
	"math"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway wraps the Razorpay SDK. Amounts cross the boundary in
// rupees and are converted to paise here.
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func paise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateOrder registers an order with the gateway and returns its id.
// Implements ledger.Gateway.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   paise(amount),
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return "", fmt.Errorf("create order: gateway response missing order id")
	}
	return orderID, nil
}

func (g *RazorpayGateway) CapturePayment(paymentID string, amount float64, currency string) (map[string]interface{}, error) {
	body, err := g.client.Payment.Capture(paymentID, int(paise(amount)), map[string]interface{}{
		"currency": currency,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("capture payment %s: %w", paymentID, err)
	}
	return body, nil
}

func (g *RazorpayGateway) RefundPayment(paymentID string, amount float64) (map[string]interface{}, error) {
	body, err := g.client.Payment.Refund(paymentID, int(paise(amount)), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("refund payment %s: %w", paymentID, err)
	}
	return body, nil
}

func (g *RazorpayGateway) CreateInvoice(data map[string]interface{}) (map[string]interface{}, error) {
	body, err := g.client.Invoice.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return body, nil
}
