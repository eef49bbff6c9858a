package models

import "time"

type TransactionType string

const (
	TransactionPaymentReceived TransactionType = "payment_received"
	TransactionPaymentMade     TransactionType = "payment_made"
	TransactionAdjustment      TransactionType = "adjustment"
)

type TransactionMethod string

const (
	TransactionMethodCash   TransactionMethod = "cash"
	TransactionMethodUPI    TransactionMethod = "upi"
	TransactionMethodOnline TransactionMethod = "online"
)

// TransactionHistory is a payment received/made (or adjustment) against an
// account. payment_received decreases the account balance, payment_made
// increases it, adjustment leaves it untouched.
type TransactionHistory struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	AccountID uint    `gorm:"index;not null" json:"account_id"`
	Account   Account `gorm:"foreignKey:AccountID" json:"-"`

	TransactionType TransactionType   `gorm:"size:20;not null" json:"transaction_type"`
	Amount          float64           `gorm:"not null" json:"amount"`
	PaymentMethod   TransactionMethod `gorm:"size:10;not null" json:"payment_method"`
	Description     string            `gorm:"size:255" json:"description"`
	Date            time.Time         `gorm:"index;not null" json:"date"`

	// CASH-/UPI-/ONLINE-<year>-<seq> depending on payment method.
	TransactionID string `gorm:"size:30;uniqueIndex;not null" json:"transaction_id"`

	// Gateway correlation, only set for online payments.
	RazorpayOrderID   string `gorm:"size:50;index" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string `gorm:"size:50" json:"razorpay_payment_id,omitempty"`

	CreatedByID uint `gorm:"index" json:"created_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
