package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card is a row in the card catalog. Image holds the storage key; the
// public URL is built by the catalog layer.
type Card struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"not null;index" json:"name"`
	Condition string          `gorm:"type:varchar(16)" json:"condition"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Image     string          `gorm:"type:varchar(255)" json:"image"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Card) TableName() string { return "pokemon" }

// ApparelProduct is a print-on-demand product returned by the apparel
// sync function. It is never persisted locally.
type ApparelProduct struct {
	ID           int64           `json:"id"`
	ExternalID   string          `json:"external_id"`
	Name         string          `json:"name"`
	ThumbnailURL string          `json:"thumbnail_url"`
	RetailPrice  decimal.Decimal `json:"retail_price"`
	Variants     int             `json:"variants"`
	Synced       int             `json:"synced"`
}
