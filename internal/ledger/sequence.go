package ledger

import (
	"fmt"
	"time"

	"bizledger-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sequence kinds. One counter per kind per calendar year.
const (
	SeqAccount     = "account"
	SeqEntry       = "ledger_entry"
	SeqTransaction = "transaction"
	SeqSale        = "sale"
)

// NextNumber atomically increments and returns the counter for (kind, year).
// The upsert locks the row for the rest of the surrounding transaction, so
// two concurrent creates always see distinct numbers.
func NextNumber(tx *gorm.DB, kind string, year int) (int64, error) {
	seq := models.Sequence{Kind: kind, Year: year, Value: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "year"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": gorm.Expr("value + 1")}),
	}).Create(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("sequence %s/%d: %w", kind, year, err)
	}
	if err := tx.Where("kind = ? AND year = ?", kind, year).Take(&seq).Error; err != nil {
		return 0, fmt.Errorf("sequence %s/%d: %w", kind, year, err)
	}
	return seq.Value, nil
}

func nextLedgerID(tx *gorm.DB, now time.Time) (string, error) {
	n, err := NextNumber(tx, SeqAccount, now.Year())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LDG-%d-%03d", now.Year(), n), nil
}

func nextEntryTransactionID(tx *gorm.DB, now time.Time) (string, error) {
	n, err := NextNumber(tx, SeqEntry, now.Year())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TXN-%d-%06d", now.Year(), n), nil
}

func nextPaymentTransactionID(tx *gorm.DB, method models.TransactionMethod, now time.Time) (string, error) {
	n, err := NextNumber(tx, SeqTransaction, now.Year())
	if err != nil {
		return "", err
	}
	var prefix string
	switch method {
	case models.TransactionMethodCash:
		prefix = "CASH"
	case models.TransactionMethodUPI:
		prefix = "UPI"
	case models.TransactionMethodOnline:
		prefix = "ONLINE"
	default:
		return "", fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, now.Year(), n), nil
}
