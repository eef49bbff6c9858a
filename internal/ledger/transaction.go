package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizledger-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionInput struct {
	AccountID       uint
	TransactionType models.TransactionType
	Amount          float64
	PaymentMethod   models.TransactionMethod
	Description     string
	Date            time.Time
	TransactionID   string // ignored on update
	RazorpayOrderID string
	CreatedByID     uint
}

func validateTransactionInput(in TransactionInput) error {
	if in.AccountID == 0 {
		return fmt.Errorf("%w: account is required", ErrValidation)
	}
	switch in.TransactionType {
	case models.TransactionPaymentReceived, models.TransactionPaymentMade, models.TransactionAdjustment:
	default:
		return fmt.Errorf("%w: invalid transaction type %q", ErrValidation, in.TransactionType)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	switch in.PaymentMethod {
	case models.TransactionMethodCash, models.TransactionMethodUPI, models.TransactionMethodOnline:
	default:
		return fmt.Errorf("%w: invalid payment method %q", ErrValidation, in.PaymentMethod)
	}
	return nil
}

// CreateTransaction records a payment against an account and applies its
// delta to the balance. For online payments without a gateway order id the
// gateway order is created first; if that call fails no local record is
// written.
func (s *Service) CreateTransaction(ctx context.Context, in TransactionInput) (*models.TransactionHistory, error) {
	if err := validateTransactionInput(in); err != nil {
		return nil, err
	}

	if in.PaymentMethod == models.TransactionMethodOnline && in.RazorpayOrderID == "" {
		if s.gateway == nil {
			return nil, fmt.Errorf("%w: gateway not configured", ErrGateway)
		}
		orderID, err := s.gateway.CreateOrder(ctx, in.Amount, "INR", uuid.NewString())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGateway, err)
		}
		in.RazorpayOrderID = orderID
	}

	now := time.Now()
	txn := models.TransactionHistory{
		AccountID:       in.AccountID,
		TransactionType: in.TransactionType,
		Amount:          in.Amount,
		PaymentMethod:   in.PaymentMethod,
		Description:     in.Description,
		Date:            in.Date,
		TransactionID:   in.TransactionID,
		RazorpayOrderID: in.RazorpayOrderID,
		CreatedByID:     in.CreatedByID,
	}
	if txn.Date.IsZero() {
		txn.Date = now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := accountExists(tx, in.AccountID); err != nil {
			return err
		}
		if txn.TransactionID == "" {
			id, err := nextPaymentTransactionID(tx, txn.PaymentMethod, now)
			if err != nil {
				return err
			}
			txn.TransactionID = id
		}
		if err := tx.Create(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrDuplicateTransactionID, txn.TransactionID)
			}
			return err
		}
		return applyBalanceDelta(tx, in.AccountID, transactionDelta(txn.TransactionType, txn.Amount))
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// UpdateTransaction applies the same revert-then-reapply discipline as entry
// edits: the old delta is undone before the new values are persisted, so
// editing a transaction's amount or type can never desynchronize the
// balance. The gateway correlation ids and the transaction id itself are not
// editable through this path.
func (s *Service) UpdateTransaction(id uint, in TransactionInput) (*models.TransactionHistory, error) {
	if err := validateTransactionInput(in); err != nil {
		return nil, err
	}

	var txn models.TransactionHistory
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&txn, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		if err := applyBalanceDelta(tx, txn.AccountID, -transactionDelta(txn.TransactionType, txn.Amount)); err != nil {
			return err
		}

		txn.TransactionType = in.TransactionType
		txn.Amount = in.Amount
		txn.PaymentMethod = in.PaymentMethod
		txn.Description = in.Description
		if !in.Date.IsZero() {
			txn.Date = in.Date
		}

		if err := tx.Save(&txn).Error; err != nil {
			return err
		}

		return applyBalanceDelta(tx, txn.AccountID, transactionDelta(txn.TransactionType, txn.Amount))
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransaction reverts the transaction's balance effect and removes the
// record.
func (s *Service) DeleteTransaction(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var txn models.TransactionHistory
		if err := tx.First(&txn, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if err := applyBalanceDelta(tx, txn.AccountID, -transactionDelta(txn.TransactionType, txn.Amount)); err != nil {
			return err
		}
		return tx.Delete(&txn).Error
	})
}

func (s *Service) GetTransaction(id uint) (*models.TransactionHistory, error) {
	var txn models.TransactionHistory
	if err := s.db.First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (s *Service) ListTransactions(accountID uint) ([]models.TransactionHistory, error) {
	var txns []models.TransactionHistory
	err := s.db.Where("account_id = ?", accountID).
		Order("created_at desc").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// AttachGatewayPayment fills in the gateway payment id on the transaction
// matching the given order id. Called from the webhook path; the balance was
// already applied when the transaction was created, so it is not touched
// here.
func (s *Service) AttachGatewayPayment(orderID, paymentID string) (*models.TransactionHistory, error) {
	var txn models.TransactionHistory
	if err := s.db.First(&txn, "razorpay_order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if err := s.db.Model(&txn).UpdateColumn("razorpay_payment_id", paymentID).Error; err != nil {
		return nil, err
	}
	txn.RazorpayPaymentID = paymentID
	return &txn, nil
}
