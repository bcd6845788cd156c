package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory record type / source tags. Deductions consume existing records
// in place; restorations always insert a new record so the trail of what
// happened is never rewritten.
const (
	RecordTypePurchase = "purchase"
	RecordTypeReturn   = "return"

	SourceManual         = "manual"
	SourceOrderCancelled = "order_cancelled"
)

// InventoryRecord is one entry in the append-style stock ledger. Available
// stock for a product is the sum of its record quantities; order placement
// consumes records oldest-first and never drives any record negative.
type InventoryRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int       `gorm:"not null"`
	Type      *string   `gorm:"type:varchar(20)"`
	Source    *string   `gorm:"type:varchar(30)"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
