package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductType discriminates which catalog a cart line refers to.
type ProductType string

const (
	ProductTypeCard    ProductType = "pokemon"
	ProductTypeApparel ProductType = "apparel"
)

func (t ProductType) Valid() bool {
	return t == ProductTypeCard || t == ProductTypeApparel
}

// CartLine is one user-selected purchasable variant pending checkout.
// The composite unique index enforces at most one line per distinct
// (user, type, product, size) variant.
type CartLine struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_cart_variant;index" json:"user_id"`
	ProductType ProductType `gorm:"type:varchar(16);not null;uniqueIndex:idx_cart_variant" json:"product_type"`
	ProductID   int64       `gorm:"not null;uniqueIndex:idx_cart_variant" json:"product_id"`
	Size        string      `gorm:"type:varchar(8);not null;default:'';uniqueIndex:idx_cart_variant" json:"size,omitempty"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (CartLine) TableName() string { return "cart" }

// EnrichedCartItem is a CartLine joined with denormalized product data.
// It is recomputed on every cart view and never persisted.
type EnrichedCartItem struct {
	LineID      uuid.UUID       `json:"line_id"`
	ProductType ProductType     `json:"product_type"`
	ProductID   int64           `json:"product_id"`
	Size        string          `json:"size,omitempty"`
	Name        string          `json:"name"`
	Condition   string          `json:"condition,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image"`
	AddedAt     time.Time       `json:"added_at"`
}
