package models

import "time"

type EntryType string

const (
	EntryTypeDebit  EntryType = "debit"
	EntryTypeCredit EntryType = "credit"
)

type EntryCategory string

const (
	CategorySales      EntryCategory = "sales"
	CategoryPurchase   EntryCategory = "purchase"
	CategoryExpense    EntryCategory = "expense"
	CategoryIncome     EntryCategory = "income"
	CategoryLoan       EntryCategory = "loan"
	CategoryInvestment EntryCategory = "investment"
)

type EntryPaymentMethod string

const (
	EntryMethodCash         EntryPaymentMethod = "cash"
	EntryMethodBankTransfer EntryPaymentMethod = "bank_transfer"
	EntryMethodUPI          EntryPaymentMethod = "upi"
	EntryMethodCreditCard   EntryPaymentMethod = "credit_card"
	EntryMethodCheque       EntryPaymentMethod = "cheque"
	EntryMethodOther        EntryPaymentMethod = "other"
)

// LedgerEntry is a manual debit/credit adjustment against an account.
// A debit increases the account balance, a credit decreases it.
type LedgerEntry struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	AccountID uint    `gorm:"index;not null" json:"account_id"`
	Account   Account `gorm:"foreignKey:AccountID" json:"-"`

	EntryType     EntryType          `gorm:"size:10;not null" json:"entry_type"`
	Amount        float64            `gorm:"not null" json:"amount"`
	Description   string             `gorm:"size:255;not null" json:"description"`
	Category      EntryCategory      `gorm:"size:20;not null" json:"category"`
	PaymentMethod EntryPaymentMethod `gorm:"size:20" json:"payment_method"`
	Date          time.Time          `gorm:"index;not null" json:"date"`
	Notes         string             `gorm:"size:500" json:"notes"`

	TransactionID string `gorm:"size:30;uniqueIndex;not null" json:"transaction_id"` // TXN-<year>-<seq>

	CreatedByID uint `gorm:"index" json:"created_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
