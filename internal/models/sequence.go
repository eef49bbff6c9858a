package models

// Sequence backs human-readable identifier generation (ledger ids, entry and
// transaction ids, invoice numbers). One row per document kind per calendar
// year, incremented with an atomic upsert so concurrent creates never read
// the same number.
type Sequence struct {
	ID    uint   `gorm:"primaryKey"`
	Kind  string `gorm:"size:30;not null;uniqueIndex:idx_sequences_kind_year"`
	Year  int    `gorm:"not null;uniqueIndex:idx_sequences_kind_year"`
	Value int64  `gorm:"not null;default:0"`
}
