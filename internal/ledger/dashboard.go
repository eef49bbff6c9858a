package ledger

import "bizledger-backend/internal/models"

// DashboardSummary aggregates an account's full history. Computed by loading
// every entry and transaction, so cost grows with history size; fine at the
// scale this system targets.
type DashboardSummary struct {
	AccountID uint    `json:"account_id"`
	LedgerID  string  `json:"ledger_id"`
	Name      string  `json:"name"`
	Balance   float64 `json:"balance"`

	TotalDebit  float64 `json:"total_debit"`
	TotalCredit float64 `json:"total_credit"`
	DebitCount  int     `json:"debit_count"`
	CreditCount int     `json:"credit_count"`

	TotalPaymentsReceived float64 `json:"total_payments_received"`
	TotalPaymentsMade     float64 `json:"total_payments_made"`
	PaymentsReceivedCount int     `json:"payments_received_count"`
	PaymentsMadeCount     int     `json:"payments_made_count"`

	RecentEntries      []models.LedgerEntry        `json:"recent_entries"`
	RecentTransactions []models.TransactionHistory `json:"recent_transactions"`
}

const recentLimit = 5

// Dashboard builds the reporting view for one account. Pure read.
func (s *Service) Dashboard(accountID uint) (*DashboardSummary, error) {
	account, err := s.GetAccount(accountID)
	if err != nil {
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

	summary := DashboardSummary{
		AccountID: account.ID,
		LedgerID:  account.LedgerID,
		Name:      account.Name,
		Balance:   account.Balance,
	}

	for _, e := range entries {
		if e.EntryType == models.EntryTypeDebit {
			summary.TotalDebit += e.Amount
			summary.DebitCount++
		} else {
			summary.TotalCredit += e.Amount
			summary.CreditCount++
		}
	}
	for _, t := range transactions {
		switch t.TransactionType {
		case models.TransactionPaymentReceived:
			summary.TotalPaymentsReceived += t.Amount
			summary.PaymentsReceivedCount++
		case models.TransactionPaymentMade:
			summary.TotalPaymentsMade += t.Amount
			summary.PaymentsMadeCount++
		}
	}

	// Both lists come back sorted descending by creation time.
	summary.RecentEntries = entries
	if len(summary.RecentEntries) > recentLimit {
		summary.RecentEntries = summary.RecentEntries[:recentLimit]
	}
	summary.RecentTransactions = transactions
	if len(summary.RecentTransactions) > recentLimit {
		summary.RecentTransactions = summary.RecentTransactions[:recentLimit]
	}

	return &summary, nil
}
