package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is one customer order placed from a station (alias "PC-07") or as a
// walk-in (alias "WI"). An order with no attached Sale is pending; the Sale
// row is the sole completion signal. Cancelled orders are deleted outright
// after their stock is restored.
type Order struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderDate         time.Time       `gorm:"type:date;not null"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OrderAlias        string          `gorm:"index;not null"`
	SessionID         *string         `gorm:"index"`
	TransactionNumber string          `gorm:"uniqueIndex;not null"`
	CreatedAt         time.Time

	Items []OrderLineItem `gorm:"foreignKey:OrderID"`
	Sale  *Sale           `gorm:"foreignKey:OrderID"`
}

// OrderLineItem snapshots the unit price at order time; later product price
// edits never touch it.
type OrderLineItem struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryID *uuid.UUID `gorm:"type:uuid"`
	Quantity   int        `gorm:"not null"`
	// Price is the unit price captured at order time.
	Price decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Notes *string
	// CookingPrefs maps a preference label to a portion count,
	// e.g. {"well done": 2, "medium": 1}.
	CookingPrefs map[string]int `gorm:"serializer:json"`
	CreatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
