package ledger

import (
	"testing"
	"time"

	"bizledger-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextNumberIncrements(t *testing.T) {
	db := newTestDB(t)

	for want := int64(1); want <= 3; want++ {
		n, err := NextNumber(db, SeqEntry, 2026)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestNextNumberIsolatedByKindAndYear(t *testing.T) {
	db := newTestDB(t)

	n, err := NextNumber(db, SeqEntry, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// A different kind starts its own counter.
	n, err = NextNumber(db, SeqTransaction, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// So does the same kind in a different year.
	n, err = NextNumber(db, SeqEntry, 2027)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = NextNumber(db, SeqEntry, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestNextPaymentTransactionIDPrefixes(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	id, err := nextPaymentTransactionID(db, models.TransactionMethodCash, now)
	require.NoError(t, err)
	assert.Equal(t, "CASH-2026-000001", id)

	id, err = nextPaymentTransactionID(db, models.TransactionMethodUPI, now)
	require.NoError(t, err)
	assert.Equal(t, "UPI-2026-000002", id)

	id, err = nextPaymentTransactionID(db, models.TransactionMethodOnline, now)
	require.NoError(t, err)
	assert.Equal(t, "ONLINE-2026-000003", id)

	_, err = nextPaymentTransactionID(db, "cheque", now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNextLedgerIDFormat(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	id, err := nextLedgerID(db, now)
	require.NoError(t, err)
	assert.Equal(t, "LDG-2026-001", id)
}
