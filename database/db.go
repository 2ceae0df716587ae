package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cardtavern/storefront/models"
)

// Connect opens the postgres connection and migrates the storefront
// schema. TranslateError is enabled so unique violations surface as
// gorm.ErrDuplicatedKey, which the order commit guard relies on.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Card{},
		&models.CartLine{},
		&models.OrderDraft{},
		&models.OrderRecord{},
		&models.OrderCommit{},
	); err != nil {
		return nil, fmt.Errorf("auto migration failed: %w", err)
	}

	return db, nil
}
