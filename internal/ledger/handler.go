package ledger

import (
	"errors"
	"strconv"
	"time"

	"bizledger-backend/internal/audit"
	"bizledger-backend/internal/auth"
	"bizledger-backend/internal/database"
	"bizledger-backend/internal/models"
	"bizledger-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Request types
// -------------------------

type CreateAccountRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Phone          string  `json:"phone" validate:"max=20"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Address        string  `json:"address" validate:"max=255"`
	UPIHandle      string  `json:"upi_handle" validate:"max=100"`
	AccountType    string  `json:"account_type" validate:"required,oneof=customer supplier expense income"`
	OpeningBalance float64 `json:"opening_balance"`
	LedgerID       string  `json:"ledger_id" validate:"max=20"`
}

type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	UPIHandle   *string `json:"upi_handle"`
	AccountType *string `json:"account_type" validate:"omitempty,oneof=customer supplier expense income"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type EntryRequest struct {
	AccountID     uint    `json:"account_id" validate:"required"`
	EntryType     string  `json:"entry_type" validate:"required,oneof=debit credit"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Description   string  `json:"description" validate:"required,max=255"`
	Category      string  `json:"category" validate:"required,oneof=sales purchase expense income loan investment"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,oneof=cash bank_transfer upi credit_card cheque other"`
	Date          string  `json:"date"` // "2025-12-09"
	Notes         string  `json:"notes" validate:"max=500"`
	TransactionID string  `json:"transaction_id" validate:"max=30"`
}

type TransactionRequest struct {
	AccountID       uint    `json:"account_id" validate:"required"`
	TransactionType string  `json:"transaction_type" validate:"required,oneof=payment_received payment_made adjustment"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod   string  `json:"payment_method" validate:"required,oneof=cash upi online"`
	Description     string  `json:"description" validate:"max=255"`
	Date            string  `json:"date"`
	TransactionID   string  `json:"transaction_id" validate:"max=30"`
	RazorpayOrderID string  `json:"razorpay_order_id" validate:"max=50"`
}

// -------------------------
// Helpers
// -------------------------

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

// httpError maps ledger errors to HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrEntryNotFound),
		errors.Is(err, ErrTransactionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrDuplicateTransactionID):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrGateway):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

func currentUser(c *fiber.Ctx) (uint, string) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return 0, ""
	}
	var user models.User
	if err := database.DB.Select("name").First(&user, "id = ?", userID).Error; err != nil {
		return userID, ""
	}
	return userID, user.Name
}

// -------------------------
// Account handlers
// -------------------------

// POST /api/accounts
func CreateAccountHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := web.BindAndValidate[CreateAccountRequest](c)
		if err != nil {
			return err
		}
		userID, userName := currentUser(c)

		account, err := svc.CreateAccount(AccountInput{
			LedgerID:       body.LedgerID,
			Name:           body.Name,
			Phone:          body.Phone,
			Email:          body.Email,
			Address:        body.Address,
			UPIHandle:      body.UPIHandle,
			AccountType:    models.AccountType(body.AccountType),
			OpeningBalance: body.OpeningBalance,
			CreatedByID:    userID,
		})
		if err != nil {
			return httpError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID: userID, UserName: userName,
			EntityType: "account", EntityID: account.ID,
			Action:      models.AuditActionCreate,
			Description: "account " + account.LedgerID + " created",
			After:       account,
		})

		return c.Status(fiber.StatusCreated).JSON(account)
	}
}

// GET /api/accounts?account_type=...&status=...
func ListAccountsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accounts, err := svc.ListAccounts(
			models.AccountType(c.Query("account_type")),
			models.AccountStatus(c.Query("status")),
		)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(accounts)
	}
}

// GET /api/accounts/:id
func GetAccountHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		account, err := svc.GetAccount(id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(account)
	}
}

// PUT /api/accounts/:id
func UpdateAccountHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		body, err := web.BindAndValidate[UpdateAccountRequest](c)
		if err != nil {
			return err
		}
		userID, userName := currentUser(c)

		before, err := svc.GetAccount(id)
		if err != nil {
			return httpError(err)
		}

		update := AccountUpdate{
			Name:      body.Name,
			Phone:     body.Phone,
			Email:     body.Email,
			Address:   body.Address,
			UPIHandle: body.UPIHandle,
		}
		if body.AccountType != nil {
			t := models.AccountType(*body.AccountType)
			update.AccountType = &t
		}
		if body.Status != nil {
			st := models.AccountStatus(*body.Status)
			update.Status = &st
		}

		account, err := svc.UpdateAccount(id, update)
		if err != nil {
			return httpError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID: userID, UserName: userName,
			EntityType: "account", EntityID: account.ID,
			Action:      models.AuditActionUpdate,
			Description: "account " + account.LedgerID + " updated",
			Before:      before, After: account,
		})

		return c.JSON(account)
	}
}

// DELETE /api/accounts/:id
func DeleteAccountHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		userID, userName := currentUser(c)

		before, err := svc.GetAccount(id)
		if err != nil {
			return httpError(err)
		}

		if err := svc.DeleteAccount(id); err != nil {
			return httpError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID: userID, UserName: userName,
			EntityType: "account", EntityID: id,
			Action:      models.AuditActionDelete,
			Description: "account " + before.LedgerID + " deleted with all entries and transactions",
			Before:      before,
		})

		return c.JSON(fiber.Map{"deleted": true})
	}
}

// POST /api/accounts/:id/recompute-balance
// Repair endpoint: recomputes the balance from live records.
func RecomputeBalanceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		balance, err := svc.RecomputeBalance(id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"account_id": id, "balance": balance})
	}
}

// GET /api/accounts/:id/dashboard
func DashboardHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		summary, err := svc.Dashboard(id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(summary)
	}
}

// GET /api/accounts/:id/combined-entries
func CombinedEntriesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		combined, err := svc.CombinedEntries(id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(combined)
	}
}

// GET /api/accounts/:id/entries
func ListEntriesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		if _, err := svc.GetAccount(id); err != nil {
			return httpError(err)
		}
		entries, err := svc.ListEntries(id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(entries)
	}
}

// GET /api/accounts/:id/transactions
func ListTransactionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		if _, err := svc.GetAccount(id); err != nil {
			return httpError(err)
		}
		txns, err := svc.ListTransactions(id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(txns)
	}
}

// -------------------------
// Entry handlers
// -------------------------

func entryInputFromRequest(body *EntryRequest, userID uint) (EntryInput, error) {
	date, err := parseDate(body.Date)
	if err != nil {
		return EntryInput{}, fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return EntryInput{
		AccountID:     body.AccountID,
		EntryType:     models.EntryType(body.EntryType),
		Amount:        body.Amount,
		Description:   body.Description,
		Category:      models.EntryCategory(body.Category),
		PaymentMethod: models.EntryPaymentMethod(body.PaymentMethod),
		Date:          date,
		Notes:         body.Notes,
		TransactionID: body.TransactionID,
		CreatedByID:   userID,
	}, nil
}

// POST /api/entries
func CreateEntryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := web.BindAndValidate[EntryRequest](c)
		if err != nil {
			return err
		}
		userID, userName := currentUser(c)

		input, err := entryInputFromRequest(body, userID)
		if err != nil {
			return err
		}
		entry, err := svc.CreateEntry(input)
		if err != nil {
			return httpError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID: userID, UserName: userName,
			EntityType: "ledger_entry", EntityID: entry.ID,
			Action:      models.AuditActionCreate,
			Description: "entry " + entry.TransactionID + " created",
			After:       entry,
		})

		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// GET /api/entries/:id
func GetEntryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		entry, err := svc.GetEntry(id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(entry)
	}
}

// PUT /api/entries/:id
func UpdateEntryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		body, err := web.BindAndValidate[EntryRequest](c)
		if err != nil {
			return err
		}
		userID, userName := currentUser(c)

		before, err := svc.GetEntry(id)
		if err != nil {
			return httpError(err)
		}

		input, err := entryInputFromRequest(body, userID)
		if err != nil {
			return err
		}
		entry, err := svc.UpdateEntry(id, input)
		if err != nil {
			return httpError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID: userID, UserName: userName,
			EntityType: "ledger_entry", EntityID: entry.ID,
			Action:      models.AuditActionUpdate,
			Description: "entry " + entry.TransactionID + " updated",
			Before:      before, After: entry,
		})

		return c.JSON(entry)
	}
}

// DELETE /api/entries/:id
func DeleteEntryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		userID, userName := currentUser(c)

		before, err := svc.GetEntry(id)
		if err != nil {
			return httpError(err)
		}

		if err := svc.DeleteEntry(id); err != nil {
			return httpError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID: userID, UserName: userName,
			EntityType: "ledger_entry", EntityID: id,
			Action:      models.AuditActionDelete,
			Description: "entry " + before.TransactionID + " deleted",
			Before:      before,
		})

		return c.JSON(fiber.Map{"deleted": true})
	}
}

// -------------------------
// Transaction handlers
// -------------------------

func transactionInputFromRequest(body *TransactionRequest, userID uint) (TransactionInput, error) {
	date, err := parseDate(body.Date)
	if err != nil {
		return TransactionInput{}, fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return TransactionInput{
		AccountID:       body.AccountID,
		TransactionType: models.TransactionType(body.TransactionType),
		Amount:          body.Amount,
		PaymentMethod:   models.TransactionMethod(body.PaymentMethod),
		Description:     body.Description,
		Date:            date,
		TransactionID:   body.TransactionID,
		RazorpayOrderID: body.RazorpayOrderID,
		CreatedByID:     userID,
	}, nil
}

// POST /api/transactions
func CreateTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := web.BindAndValidate[TransactionRequest](c)
		if err != nil {
			return err
		}
		userID, userName := currentUser(c)

		input, err := transactionInputFromRequest(body, userID)
		if err != nil {
			return err
		}
		txn, err := svc.CreateTransaction(c.Context(), input)
		if err != nil {
			return httpError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID: userID, UserName: userName,
			EntityType: "transaction", EntityID: txn.ID,
			Action:      models.AuditActionCreate,
			Description: "transaction " + txn.TransactionID + " created",
			After:       txn,
		})

		return c.Status(fiber.StatusCreated).JSON(txn)
	}
}

// GET /api/transactions/:id
func GetTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		txn, err := svc.GetTransaction(id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(txn)
	}
}

// PUT /api/transactions/:id
func UpdateTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		body, err := web.BindAndValidate[TransactionRequest](c)
		if err != nil {
			return err
		}
		userID, userName := currentUser(c)

		before, err := svc.GetTransaction(id)
		if err != nil {
			return httpError(err)
		}

		input, err := transactionInputFromRequest(body, userID)
		if err != nil {
			return err
		}
		txn, err := svc.UpdateTransaction(id, input)
		if err != nil {
			return httpError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID: userID, UserName: userName,
			EntityType: "transaction", EntityID: txn.ID,
			Action:      models.AuditActionUpdate,
			Description: "transaction " + txn.TransactionID + " updated",
			Before:      before, After: txn,
		})

		return c.JSON(txn)
	}
}

// DELETE /api/transactions/:id
func DeleteTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		userID, userName := currentUser(c)

		before, err := svc.GetTransaction(id)
		if err != nil {
			return httpError(err)
		}

		if err := svc.DeleteTransaction(id); err != nil {
			return httpError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID: userID, UserName: userName,
			EntityType: "transaction", EntityID: id,
			Action:      models.AuditActionDelete,
			Description: "transaction " + before.TransactionID + " deleted",
			Before:      before,
		})

		return c.JSON(fiber.Map{"deleted": true})
	}
}
