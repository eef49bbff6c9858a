package ledger

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"bizledger-backend/internal/database"
	"bizledger-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeGateway struct {
	orderID string
	err     error
	calls   int
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.orderID, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{orderID: "order_test123"}
	return NewService(newTestDB(t), gw), gw
}

func mustCreateAccount(t *testing.T, svc *Service) *models.Account {
	t.Helper()
	acc, err := svc.CreateAccount(AccountInput{
		Name:        "Sharma Traders",
		Phone:       "9876543210",
		AccountType: models.AccountTypeCustomer,
	})
	require.NoError(t, err)
	return acc
}

func balance(t *testing.T, svc *Service, id uint) float64 {
	t.Helper()
	acc, err := svc.GetAccount(id)
	require.NoError(t, err)
	return acc.Balance
}

func debitInput(accountID uint, amount float64) EntryInput {
	return EntryInput{
		AccountID:   accountID,
		EntryType:   models.EntryTypeDebit,
		Amount:      amount,
		Description: "goods sold on credit",
		Category:    models.CategorySales,
	}
}

func creditInput(accountID uint, amount float64) EntryInput {
	return EntryInput{
		AccountID:   accountID,
		EntryType:   models.EntryTypeCredit,
		Amount:      amount,
		Description: "goods returned",
		Category:    models.CategorySales,
	}
}

func paymentInput(accountID uint, typ models.TransactionType, amount float64) TransactionInput {
	return TransactionInput{
		AccountID:       accountID,
		TransactionType: typ,
		Amount:          amount,
		PaymentMethod:   models.TransactionMethodCash,
	}
}

func TestCreateAccountGeneratesLedgerID(t *testing.T) {
	svc, _ := newTestService(t)

	first := mustCreateAccount(t, svc)
	second := mustCreateAccount(t, svc)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("LDG-%d-001", year), first.LedgerID)
	assert.Equal(t, fmt.Sprintf("LDG-%d-002", year), second.LedgerID)
	assert.Equal(t, models.AccountStatusActive, first.Status)
	assert.Equal(t, 0.0, first.Balance)
}

func TestCreateAccountValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateAccount(AccountInput{AccountType: models.AccountTypeCustomer})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateAccount(AccountInput{Name: "X", AccountType: "wholesale"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBalanceFollowsMutations(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	_, err := svc.CreateEntry(debitInput(acc.ID, 100))
	require.NoError(t, err)
	assert.Equal(t, 100.0, balance(t, svc, acc.ID))

	_, err = svc.CreateEntry(creditInput(acc.ID, 40))
	require.NoError(t, err)
	assert.Equal(t, 60.0, balance(t, svc, acc.ID))

	_, err = svc.CreateTransaction(context.Background(), paymentInput(acc.ID, models.TransactionPaymentMade, 50))
	require.NoError(t, err)
	assert.Equal(t, 110.0, balance(t, svc, acc.ID))

	_, err = svc.CreateTransaction(context.Background(), paymentInput(acc.ID, models.TransactionPaymentMade, 40))
	require.NoError(t, err)
	assert.Equal(t, 150.0, balance(t, svc, acc.ID))

	_, err = svc.CreateTransaction(context.Background(), paymentInput(acc.ID, models.TransactionPaymentReceived, 150))
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance(t, svc, acc.ID))
}

func TestAdjustmentHasNoBalanceEffect(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	_, err := svc.CreateEntry(debitInput(acc.ID, 75))
	require.NoError(t, err)

	txn, err := svc.CreateTransaction(context.Background(), paymentInput(acc.ID, models.TransactionAdjustment, 999))
	require.NoError(t, err)
	assert.Equal(t, 75.0, balance(t, svc, acc.ID))

	require.NoError(t, svc.DeleteTransaction(txn.ID))
	assert.Equal(t, 75.0, balance(t, svc, acc.ID))
}

func TestUpdateEntryRevertsThenReapplies(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	entry, err := svc.CreateEntry(debitInput(acc.ID, 100))
	require.NoError(t, err)

	// Flip debit to credit: +100 becomes -100.
	in := creditInput(acc.ID, 100)
	updated, err := svc.UpdateEntry(entry.ID, in)
	require.NoError(t, err)
	assert.Equal(t, models.EntryTypeCredit, updated.EntryType)
	assert.Equal(t, -100.0, balance(t, svc, acc.ID))

	// Edit back, balance returns to the original value.
	_, err = svc.UpdateEntry(entry.ID, debitInput(acc.ID, 100))
	require.NoError(t, err)
	assert.Equal(t, 100.0, balance(t, svc, acc.ID))

	// The id is assigned once and survives edits.
	after, err := svc.GetEntry(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.TransactionID, after.TransactionID)
}

func TestUpdateEntryAmountOnly(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	entry, err := svc.CreateEntry(debitInput(acc.ID, 100))
	require.NoError(t, err)

	_, err = svc.UpdateEntry(entry.ID, debitInput(acc.ID, 30))
	require.NoError(t, err)
	assert.Equal(t, 30.0, balance(t, svc, acc.ID))
}

func TestDeleteEntryRevertsBalance(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	entry, err := svc.CreateEntry(debitInput(acc.ID, 80))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteEntry(entry.ID))
	assert.Equal(t, 0.0, balance(t, svc, acc.ID))

	_, err = svc.GetEntry(entry.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	// Recreating with the same values lands on the same balance and gets a
	// fresh id since the old one was released with the record.
	again, err := svc.CreateEntry(debitInput(acc.ID, 80))
	require.NoError(t, err)
	assert.Equal(t, 80.0, balance(t, svc, acc.ID))
	assert.NotEqual(t, entry.TransactionID, again.TransactionID)
}

func TestUpdateTransactionRevertsThenReapplies(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	txn, err := svc.CreateTransaction(context.Background(), paymentInput(acc.ID, models.TransactionPaymentReceived, 50))
	require.NoError(t, err)
	assert.Equal(t, -50.0, balance(t, svc, acc.ID))

	_, err = svc.UpdateTransaction(txn.ID, paymentInput(acc.ID, models.TransactionPaymentMade, 30))
	require.NoError(t, err)
	assert.Equal(t, 30.0, balance(t, svc, acc.ID))

	require.NoError(t, svc.DeleteTransaction(txn.ID))
	assert.Equal(t, 0.0, balance(t, svc, acc.ID))
}

func TestTransactionIDFormats(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)
	year := time.Now().Year()

	entry, err := svc.CreateEntry(debitInput(acc.ID, 10))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(fmt.Sprintf(`^TXN-%d-\d{6}$`, year)), entry.TransactionID)

	cash, err := svc.CreateTransaction(context.Background(), paymentInput(acc.ID, models.TransactionPaymentReceived, 10))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(fmt.Sprintf(`^CASH-%d-\d{6}$`, year)), cash.TransactionID)

	upiIn := paymentInput(acc.ID, models.TransactionPaymentReceived, 10)
	upiIn.PaymentMethod = models.TransactionMethodUPI
	upi, err := svc.CreateTransaction(context.Background(), upiIn)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(fmt.Sprintf(`^UPI-%d-\d{6}$`, year)), upi.TransactionID)

	assert.NotEqual(t, cash.TransactionID, upi.TransactionID)
}

func TestTransactionIDsAreUnique(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		entry, err := svc.CreateEntry(debitInput(acc.ID, 1))
		require.NoError(t, err)
		assert.False(t, seen[entry.TransactionID], "duplicate id %s", entry.TransactionID)
		seen[entry.TransactionID] = true
	}
}

func TestDuplicateTransactionIDRejected(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	in := debitInput(acc.ID, 25)
	in.TransactionID = "TXN-2026-999999"
	_, err := svc.CreateEntry(in)
	require.NoError(t, err)

	_, err = svc.CreateEntry(in)
	assert.ErrorIs(t, err, ErrDuplicateTransactionID)

	// The failed create must not have touched the balance.
	assert.Equal(t, 25.0, balance(t, svc, acc.ID))
}

func TestCreateEntryUnknownAccount(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateEntry(debitInput(42, 10))
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestEntryValidation(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	bad := debitInput(acc.ID, 10)
	bad.EntryType = "transfer"
	_, err := svc.CreateEntry(bad)
	assert.ErrorIs(t, err, ErrValidation)

	bad = debitInput(acc.ID, 0)
	_, err = svc.CreateEntry(bad)
	assert.ErrorIs(t, err, ErrValidation)

	bad = debitInput(acc.ID, 10)
	bad.Description = ""
	_, err = svc.CreateEntry(bad)
	assert.ErrorIs(t, err, ErrValidation)

	bad = debitInput(acc.ID, 10)
	bad.Category = "misc"
	_, err = svc.CreateEntry(bad)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, 0.0, balance(t, svc, acc.ID))
}

func TestDeleteAccountCascades(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	entry, err := svc.CreateEntry(debitInput(acc.ID, 100))
	require.NoError(t, err)
	txn, err := svc.CreateTransaction(context.Background(), paymentInput(acc.ID, models.TransactionPaymentReceived, 60))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(acc.ID))

	_, err = svc.GetAccount(acc.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	_, err = svc.GetEntry(entry.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	_, err = svc.GetTransaction(txn.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	assert.ErrorIs(t, svc.DeleteAccount(acc.ID), ErrAccountNotFound)
}

func TestRecomputeBalanceRepairsDrift(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	_, err := svc.CreateEntry(debitInput(acc.ID, 100))
	require.NoError(t, err)
	_, err = svc.CreateTransaction(context.Background(), paymentInput(acc.ID, models.TransactionPaymentReceived, 30))
	require.NoError(t, err)

	// Simulate a lost incremental update.
	require.NoError(t, svc.db.Model(&models.Account{}).
		Where("id = ?", acc.ID).
		UpdateColumn("balance", 9999.0).Error)

	total, err := svc.RecomputeBalance(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, total)
	assert.Equal(t, 70.0, balance(t, svc, acc.ID))

	// Running it again is a no-op.
	total, err = svc.RecomputeBalance(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, total)
}

func TestOnlinePaymentCreatesGatewayOrder(t *testing.T) {
	svc, gw := newTestService(t)
	acc := mustCreateAccount(t, svc)

	in := paymentInput(acc.ID, models.TransactionPaymentReceived, 500)
	in.PaymentMethod = models.TransactionMethodOnline
	txn, err := svc.CreateTransaction(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, "order_test123", txn.RazorpayOrderID)
	assert.Regexp(t, `^ONLINE-\d{4}-\d{6}$`, txn.TransactionID)
}

func TestGatewayFailureWritesNothing(t *testing.T) {
	svc, gw := newTestService(t)
	acc := mustCreateAccount(t, svc)
	gw.err = errors.New("gateway down")

	in := paymentInput(acc.ID, models.TransactionPaymentReceived, 500)
	in.PaymentMethod = models.TransactionMethodOnline
	_, err := svc.CreateTransaction(context.Background(), in)
	assert.ErrorIs(t, err, ErrGateway)

	txns, err := svc.ListTransactions(acc.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.Equal(t, 0.0, balance(t, svc, acc.ID))
}

func TestOnlinePaymentWithoutGateway(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	acc := mustCreateAccount(t, svc)

	in := paymentInput(acc.ID, models.TransactionPaymentReceived, 500)
	in.PaymentMethod = models.TransactionMethodOnline
	_, err := svc.CreateTransaction(context.Background(), in)
	assert.ErrorIs(t, err, ErrGateway)
}

func TestAttachGatewayPayment(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	in := paymentInput(acc.ID, models.TransactionPaymentReceived, 200)
	in.PaymentMethod = models.TransactionMethodOnline
	txn, err := svc.CreateTransaction(context.Background(), in)
	require.NoError(t, err)
	before := balance(t, svc, acc.ID)

	attached, err := svc.AttachGatewayPayment(txn.RazorpayOrderID, "pay_abc123")
	require.NoError(t, err)
	assert.Equal(t, "pay_abc123", attached.RazorpayPaymentID)
	assert.Equal(t, txn.ID, attached.ID)

	// Attaching only correlates ids, the balance stays put.
	assert.Equal(t, before, balance(t, svc, acc.ID))

	_, err = svc.AttachGatewayPayment("order_nonexistent", "pay_xyz")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestUpdateAccountPartialFields(t *testing.T) {
	svc, _ := newTestService(t)
	acc := mustCreateAccount(t, svc)

	newPhone := "1112223333"
	updated, err := svc.UpdateAccount(acc.ID, AccountUpdate{Phone: &newPhone})
	require.NoError(t, err)
	assert.Equal(t, "1112223333", updated.Phone)
	assert.Equal(t, acc.Name, updated.Name)
	assert.Equal(t, acc.LedgerID, updated.LedgerID)

	empty := ""
	_, err = svc.UpdateAccount(acc.ID, AccountUpdate{Name: &empty})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListAccountsFilters(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreateAccount(t, svc)

	supplier, err := svc.CreateAccount(AccountInput{
		Name:        "Gupta Supplies",
		AccountType: models.AccountTypeSupplier,
	})
	require.NoError(t, err)

	inactive := models.AccountStatusInactive
	_, err = svc.UpdateAccount(supplier.ID, AccountUpdate{Status: &inactive})
	require.NoError(t, err)

	all, err := svc.ListAccounts("", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	suppliers, err := svc.ListAccounts(models.AccountTypeSupplier, "")
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Gupta Supplies", suppliers[0].Name)

	active, err := svc.ListAccounts("", models.AccountStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestOpeningBalanceCountsAsStartingPoint(t *testing.T) {
	svc, _ := newTestService(t)

	acc, err := svc.CreateAccount(AccountInput{
		Name:           "Verma & Sons",
		AccountType:    models.AccountTypeCustomer,
		OpeningBalance: 250,
	})
	require.NoError(t, err)
	assert.Equal(t, 250.0, acc.Balance)

	_, err = svc.CreateEntry(creditInput(acc.ID, 50))
	require.NoError(t, err)
	assert.Equal(t, 200.0, balance(t, svc, acc.ID))
}
