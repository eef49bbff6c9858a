package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizledger-backend/internal/models"

	"gorm.io/gorm"
)

// Gateway creates orders with the external payment provider. Implemented by
// the payment package; nil disables online transactions.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, receipt string) (orderID string, err error)
}

// Service owns account, entry and transaction bookkeeping. Every mutation
// runs in a single DB transaction and keeps account.Balance equal to the
// signed sum of all live entries and transactions.
type Service struct {
	db      *gorm.DB
	gateway Gateway
}

func NewService(db *gorm.DB, gateway Gateway) *Service {
	return &Service{db: db, gateway: gateway}
}

// -------------------------
// Accounts
// -------------------------

type AccountInput struct {
	LedgerID       string
	Name           string
	Phone          string
	Email          string
	Address        string
	UPIHandle      string
	AccountType    models.AccountType
	OpeningBalance float64
	CreatedByID    uint
}

type AccountUpdate struct {
	Name        *string
	Phone       *string
	Email       *string
	Address     *string
	UPIHandle   *string
	AccountType *models.AccountType
	Status      *models.AccountStatus
}

func validAccountType(t models.AccountType) bool {
	switch t {
	case models.AccountTypeCustomer, models.AccountTypeSupplier,
		models.AccountTypeExpense, models.AccountTypeIncome:
		return true
	}
	return false
}

func (s *Service) CreateAccount(in AccountInput) (*models.Account, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !validAccountType(in.AccountType) {
		return nil, fmt.Errorf("%w: invalid account type %q", ErrValidation, in.AccountType)
	}

	account := models.Account{
		LedgerID:    in.LedgerID,
		Name:        in.Name,
		Phone:       in.Phone,
		Email:       in.Email,
		Address:     in.Address,
		UPIHandle:   in.UPIHandle,
		Balance:     in.OpeningBalance,
		AccountType: in.AccountType,
		Status:      models.AccountStatusActive,
		CreatedByID: in.CreatedByID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if account.LedgerID == "" {
			id, err := nextLedgerID(tx, time.Now())
			if err != nil {
				return err
			}
			account.LedgerID = id
		}
		if err := tx.Create(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: ledger id %s", ErrDuplicateTransactionID, account.LedgerID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Service) GetAccount(id uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *Service) ListAccounts(accountType models.AccountType, status models.AccountStatus) ([]models.Account, error) {
	q := s.db.Order("created_at desc")
	if accountType != "" {
		q = q.Where("account_type = ?", accountType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var accounts []models.Account
	if err := q.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Service) UpdateAccount(id uint, in AccountUpdate) (*models.Account, error) {
	account, err := s.GetAccount(id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrValidation)
		}
		account.Name = *in.Name
	}
	if in.Phone != nil {
		account.Phone = *in.Phone
	}
	if in.Email != nil {
		account.Email = *in.Email
	}
	if in.Address != nil {
		account.Address = *in.Address
	}
	if in.UPIHandle != nil {
		account.UPIHandle = *in.UPIHandle
	}
	if in.AccountType != nil {
		if !validAccountType(*in.AccountType) {
			return nil, fmt.Errorf("%w: invalid account type %q", ErrValidation, *in.AccountType)
		}
		account.AccountType = *in.AccountType
	}
	if in.Status != nil {
		if *in.Status != models.AccountStatusActive && *in.Status != models.AccountStatusInactive {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *in.Status)
		}
		account.Status = *in.Status
	}

	if err := s.db.Save(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes the account and every entry and transaction that
// references it. Children go first so a crash mid-sequence can never leave
// orphan records pointing at a missing account.
func (s *Service) DeleteAccount(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&models.LedgerEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&models.TransactionHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&account).Error
	})
}

// RecomputeBalance recalculates the balance from live records and writes it
// back. This is the repair path for the (unlikely) case where an incremental
// update was lost; the record sum is ground truth.
func (s *Service) RecomputeBalance(accountID uint) (float64, error) {
	var total float64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		var entries []models.LedgerEntry
		if err := tx.Where("account_id = ?", accountID).Find(&entries).Error; err != nil {
			return err
		}
		var transactions []models.TransactionHistory
		if err := tx.Where("account_id = ?", accountID).Find(&transactions).Error; err != nil {
			return err
		}

		total = 0
		for _, e := range entries {
			total += entryDelta(e.EntryType, e.Amount)
		}
		for _, t := range transactions {
			total += transactionDelta(t.TransactionType, t.Amount)
		}

		return tx.Model(&models.Account{}).
			Where("id = ?", accountID).
			UpdateColumn("balance", total).Error
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
