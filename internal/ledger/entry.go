package ledger

import (
	"errors"
	"fmt"
	"time"

	"bizledger-backend/internal/models"

	"gorm.io/gorm"
)

type EntryInput struct {
	AccountID     uint
	EntryType     models.EntryType
	Amount        float64
	Description   string
	Category      models.EntryCategory
	PaymentMethod models.EntryPaymentMethod
	Date          time.Time
	Notes         string
	TransactionID string // ignored on update, ids are assigned once
	CreatedByID   uint
}

func validateEntryInput(in EntryInput) error {
	if in.AccountID == 0 {
		return fmt.Errorf("%w: account is required", ErrValidation)
	}
	if in.EntryType != models.EntryTypeDebit && in.EntryType != models.EntryTypeCredit {
		return fmt.Errorf("%w: invalid entry type %q", ErrValidation, in.EntryType)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	switch in.Category {
	case models.CategorySales, models.CategoryPurchase, models.CategoryExpense,
		models.CategoryIncome, models.CategoryLoan, models.CategoryInvestment:
	default:
		return fmt.Errorf("%w: invalid category %q", ErrValidation, in.Category)
	}
	switch in.PaymentMethod {
	case "", models.EntryMethodCash, models.EntryMethodBankTransfer, models.EntryMethodUPI,
		models.EntryMethodCreditCard, models.EntryMethodCheque, models.EntryMethodOther:
	default:
		return fmt.Errorf("%w: invalid payment method %q", ErrValidation, in.PaymentMethod)
	}
	return nil
}

// CreateEntry persists the entry and applies its signed delta to the owning
// account in one DB transaction.
func (s *Service) CreateEntry(in EntryInput) (*models.LedgerEntry, error) {
	if err := validateEntryInput(in); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := models.LedgerEntry{
		AccountID:     in.AccountID,
		EntryType:     in.EntryType,
		Amount:        in.Amount,
		Description:   in.Description,
		Category:      in.Category,
		PaymentMethod: in.PaymentMethod,
		Date:          in.Date,
		Notes:         in.Notes,
		TransactionID: in.TransactionID,
		CreatedByID:   in.CreatedByID,
	}
	if entry.Date.IsZero() {
		entry.Date = now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := accountExists(tx, in.AccountID); err != nil {
			return err
		}
		if entry.TransactionID == "" {
			id, err := nextEntryTransactionID(tx, now)
			if err != nil {
				return err
			}
			entry.TransactionID = id
		}
		if err := tx.Create(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrDuplicateTransactionID, entry.TransactionID)
			}
			return err
		}
		return applyBalanceDelta(tx, in.AccountID, entryDelta(entry.EntryType, entry.Amount))
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry reverts the entry's previous balance effect, persists the new
// field values, then applies the new effect. The revert+reapply always runs,
// even when only non-balance fields changed, so the balance invariant holds
// without tracking which fields moved.
func (s *Service) UpdateEntry(id uint, in EntryInput) (*models.LedgerEntry, error) {
	if err := validateEntryInput(in); err != nil {
		return nil, err
	}

	var entry models.LedgerEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return err
		}

		// Undo the old effect before the new values exist anywhere.
		if err := applyBalanceDelta(tx, entry.AccountID, -entryDelta(entry.EntryType, entry.Amount)); err != nil {
			return err
		}

		// Entries never move between accounts; in.AccountID is ignored here.
		entry.EntryType = in.EntryType
		entry.Amount = in.Amount
		entry.Description = in.Description
		entry.Category = in.Category
		entry.PaymentMethod = in.PaymentMethod
		entry.Notes = in.Notes
		if !in.Date.IsZero() {
			entry.Date = in.Date
		}

		if err := tx.Save(&entry).Error; err != nil {
			return err
		}

		return applyBalanceDelta(tx, entry.AccountID, entryDelta(entry.EntryType, entry.Amount))
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry reverts the entry's balance effect and removes the record.
func (s *Service) DeleteEntry(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var entry models.LedgerEntry
		if err := tx.First(&entry, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return err
		}
		if err := applyBalanceDelta(tx, entry.AccountID, -entryDelta(entry.EntryType, entry.Amount)); err != nil {
			return err
		}
		return tx.Delete(&entry).Error
	})
}

func (s *Service) GetEntry(id uint) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (s *Service) ListEntries(accountID uint) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := s.db.Where("account_id = ?", accountID).
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func accountExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrAccountNotFound
	}
	return nil
}
