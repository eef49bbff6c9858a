package database

import (
	"log"

	"bizledger-backend/internal/config"
	"bizledger-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey, which the ledger relies on for transaction id
	// collision detection.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("database connected, migration complete")
}

// Migrate runs AutoMigrate for every model. Shared with tests, which run it
// against an in-memory sqlite database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.LedgerEntry{},
		&models.TransactionHistory{},
		&models.Sequence{},
		&models.Product{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Notification{},
		&models.AuditLog{},
	)
}
