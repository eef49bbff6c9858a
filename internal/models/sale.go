package models

import "time"

type SaleStatus string

const (
	SaleStatusPaid    SaleStatus = "paid"
	SaleStatusPartial SaleStatus = "partial"
	SaleStatusUnpaid  SaleStatus = "unpaid"
)

type Sale struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	InvoiceNo string `gorm:"size:30;uniqueIndex;not null" json:"invoice_no"` // INV-<year>-<seq>

	// Optional link to a customer ledger account.
	AccountID *uint    `gorm:"index" json:"account_id"`
	Account   *Account `gorm:"foreignKey:AccountID" json:"-"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`

	Subtotal      float64    `gorm:"not null" json:"subtotal"`
	Discount      float64    `gorm:"not null;default:0" json:"discount"`
	Total         float64    `gorm:"not null" json:"total"`
	AmountPaid    float64    `gorm:"not null;default:0" json:"amount_paid"`
	PaymentMethod string     `gorm:"size:20" json:"payment_method"`
	Status        SaleStatus `gorm:"size:10;not null;default:unpaid" json:"status"`
	Date          time.Time  `gorm:"index;not null" json:"date"`

	CreatedByID uint `gorm:"index" json:"created_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaleItem denormalizes product name and price so invoices stay stable when
// the product is later edited or removed.
type SaleItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	SaleID    uint `gorm:"index;not null" json:"sale_id"`
	ProductID uint `gorm:"index;not null" json:"product_id"`

	ProductName string  `gorm:"size:100;not null" json:"product_name"`
	Quantity    float64 `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	LineTotal   float64 `gorm:"not null" json:"line_total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
