package ledger

import (
	"sort"
	"time"

	"bizledger-backend/internal/models"
)

// CombinedEntry is one row of the merged entry/transaction feed. Transactions
// are mapped into entry shape; IsTransaction preserves their true origin.
type CombinedEntry struct {
	ID              uint                   `json:"id"`
	TransactionID   string                 `json:"transaction_id"`
	EntryType       models.EntryType       `json:"entry_type"`
	Amount          float64                `json:"amount"`
	Description     string                 `json:"description"`
	Category        models.EntryCategory   `json:"category"`
	PaymentMethod   string                 `json:"payment_method"`
	Date            time.Time              `json:"date"`
	CreatedAt       time.Time              `json:"created_at"`
	IsTransaction   bool                   `json:"is_transaction"`
	TransactionType models.TransactionType `json:"transaction_type,omitempty"`
}

// CombinedEntries merges an account's entries and transactions into one feed
// sorted descending by creation time. Read-only; neither source collection
// is modified.
func (s *Service) CombinedEntries(accountID uint) ([]CombinedEntry, error) {
	if _, err := s.GetAccount(accountID); err != nil {
		return nil, err
	}

	entries, err := s.ListEntries(accountID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.ListTransactions(accountID)
	if err != nil {
		return nil, err
	}

	combined := make([]CombinedEntry, 0, len(entries)+len(transactions))
	for _, e := range entries {
		combined = append(combined, CombinedEntry{
			ID:            e.ID,
			TransactionID: e.TransactionID,
			EntryType:     e.EntryType,
			Amount:        e.Amount,
			Description:   e.Description,
			Category:      e.Category,
			PaymentMethod: string(e.PaymentMethod),
			Date:          e.Date,
			CreatedAt:     e.CreatedAt,
		})
	}
	for _, t := range transactions {
		combined = append(combined, mapTransaction(t))
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].CreatedAt.After(combined[j].CreatedAt)
	})
	return combined, nil
}

// mapTransaction presents a payment as an entry-shaped record:
// payment_received reads as a credit under income, payment_made as a debit
// under expense. Adjustments keep no entry type mapping that affects totals;
// they surface as credits with zero balance weight elsewhere.
func mapTransaction(t models.TransactionHistory) CombinedEntry {
	ce := CombinedEntry{
		ID:              t.ID,
		TransactionID:   t.TransactionID,
		Amount:          t.Amount,
		Description:     t.Description,
		PaymentMethod:   string(t.PaymentMethod),
		Date:            t.Date,
		CreatedAt:       t.CreatedAt,
		IsTransaction:   true,
		TransactionType: t.TransactionType,
	}
	switch t.TransactionType {
	case models.TransactionPaymentMade:
		ce.EntryType = models.EntryTypeDebit
		ce.Category = models.CategoryExpense
	default: // payment_received, adjustment
		ce.EntryType = models.EntryTypeCredit
		ce.Category = models.CategoryIncome
	}
	return ce
}
