package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product status values. Archived products stay referenceable by historical
// orders but are hidden from the ordering surface.
const (
	ProductActive     = "active"
	ProductArchived   = "archived"
	ProductOutOfStock = "out_of_stock"
)

// Product represents both simple products and bundles. A product with at
// least one BundleComponent is a bundle; its stock is derived from its
// components, never stored directly. Stockable=false means availability is
// never tracked (e.g. rice).
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Stockable   bool            `gorm:"not null;default:true"`
	Status      string          `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category   *Category         `gorm:"foreignKey:CategoryID"`
	Components []BundleComponent `gorm:"foreignKey:ProductID"`
}

// IsBundle reports whether the product's stock is derived from components.
// Only meaningful when Components has been preloaded.
func (p *Product) IsBundle() bool { return len(p.Components) > 0 }
