package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale marks an order as completed/paid. At most one Sale exists per order
// (enforced by the unique index); SaleDate and TotalAmount are snapshots
// taken at confirmation time.
type Sale struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID     uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	SaleDate    time.Time       `gorm:"type:date;not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalOrder  int             `gorm:"not null;default:1"`
	CreatedAt   time.Time
}
