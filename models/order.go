package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address is the billing/shipping field set collected at checkout.
type Address struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}

// OrderDraft snapshots total and addresses at checkout submission,
// before payment confirmation. Immutable after creation except for
// the payment session id attachment.
type OrderDraft struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	BillingAddress  Address         `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`
	ShippingAddress Address         `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	Notes           string          `gorm:"type:text" json:"notes"`
	SessionID       *string         `gorm:"type:varchar(255);uniqueIndex" json:"session_id,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (OrderDraft) TableName() string { return "order_drafts" }

// OrderRecord is one durable, append-only row per purchased line item,
// created after payment is confirmed. Never updated or deleted.
type OrderRecord struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID    string          `gorm:"type:varchar(255);not null;index" json:"session_id"`
	ProductID    int64           `gorm:"not null" json:"product_id"`
	ProductType  ProductType     `gorm:"type:varchar(16);not null" json:"product_type"`
	Size         string          `gorm:"type:varchar(8);not null;default:''" json:"size,omitempty"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PurchasedAt  time.Time       `gorm:"not null" json:"purchased_at"`
	OrderDraftID uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_draft_id"`
}

func (OrderRecord) TableName() string { return "orders" }

// OrderCommit is the durable commit guard: one row per payment session
// for which order records have been written. The primary key rejects a
// second commit of the same session across processes and page loads.
type OrderCommit struct {
	SessionID   string    `gorm:"type:varchar(255);primaryKey" json:"session_id"`
	CommittedAt time.Time `gorm:"autoCreateTime" json:"committed_at"`
}

func (OrderCommit) TableName() string { return "order_commits" }
