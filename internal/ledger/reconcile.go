package ledger

import (
	"bizledger-backend/internal/models"

	"gorm.io/gorm"
)

// Sign convention for account balances:
//
//	debit entry       +amount  (the account owes the business more)
//	credit entry      -amount
//	payment_received  -amount  (reduces what the account owes)
//	payment_made      +amount  (the business owes the account more)
//	adjustment         0       (bookkeeping marker, no balance effect)

func entryDelta(t models.EntryType, amount float64) float64 {
	if t == models.EntryTypeDebit {
		return amount
	}
	return -amount
}

func transactionDelta(t models.TransactionType, amount float64) float64 {
	switch t {
	case models.TransactionPaymentReceived:
		return -amount
	case models.TransactionPaymentMade:
		return amount
	default: // adjustment
		return 0
	}
}

// applyBalanceDelta adds delta to the account balance as a single atomic
// UPDATE at the storage layer. Concurrent mutations against the same account
// therefore never lose updates; there is no read-modify-write window.
func applyBalanceDelta(tx *gorm.DB, accountID uint, delta float64) error {
	res := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
