package models

import "time"

type AccountType string

const (
	AccountTypeCustomer AccountType = "customer"
	AccountTypeSupplier AccountType = "supplier"
	AccountTypeExpense  AccountType = "expense"
	AccountTypeIncome   AccountType = "income"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Account is a customer/supplier/expense/income ledger. Balance is the
// authoritative running total: the signed sum of every live entry and
// transaction against this account.
type Account struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	LedgerID  string `gorm:"size:20;uniqueIndex;not null" json:"ledger_id"` // LDG-<year>-<seq>
	Name      string `gorm:"size:100;not null" json:"name"`
	Phone     string `gorm:"size:20" json:"phone"`
	Email     string `gorm:"size:100" json:"email"`
	Address   string `gorm:"size:255" json:"address"`
	UPIHandle string `gorm:"size:100" json:"upi_handle"` // payment handle, e.g. shop@upi

	Balance     float64       `gorm:"not null;default:0" json:"balance"`
	AccountType AccountType   `gorm:"size:20;not null;index" json:"account_type"`
	Status      AccountStatus `gorm:"size:20;not null;default:active" json:"status"`

	CreatedByID uint `gorm:"index" json:"created_by_id"`
	CreatedBy   User `gorm:"foreignKey:CreatedByID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
