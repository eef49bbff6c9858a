package ledger

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrEntryNotFound       = errors.New("ledger entry not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicateTransactionID is returned when a caller-supplied (or, in a
	// pathological case, generated) transaction id collides with an existing
	// record. The unique index is the authoritative collision detector.
	ErrDuplicateTransactionID = errors.New("transaction id already in use")

	ErrValidation = errors.New("validation failed")

	// ErrGateway wraps payment gateway failures. When order creation fails no
	// local transaction record is written.
	ErrGateway = errors.New("payment gateway error")
)
