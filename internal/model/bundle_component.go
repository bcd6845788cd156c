package model

import "github.com/google/uuid"

// BundleComponent links a bundle to one of its component products.
// Quantity is the number of component units consumed per bundle sold.
type BundleComponent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_bundle_component;not null"`
	ComponentID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_bundle_component;not null"`
	Quantity    int       `gorm:"not null"`

	Component *Product `gorm:"foreignKey:ComponentID"`
}
