package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
	// Price overrides the current product price when set (promo pricing
	// decided at the counter); omitted = snapshot the catalog price.
	Price      *decimal.Decimal `json:"price"      validate:"omitempty"`
	CategoryID *string          `json:"category_id" validate:"omitempty,uuid"`
	Notes      *string          `json:"notes"`
	// CookingPreferences maps a preference label to a portion count.
	CookingPreferences map[string]int `json:"cookingPreferences"`
}

type PlaceOrderRequest struct {
	OrderDate string             `json:"order_date"  validate:"required,datetime=2006-01-02"`
	Items     []OrderItemRequest `json:"order_items" validate:"required,min=1,dive"`
	// PCNumber 0 = walk-in order (no station attribution).
	PCNumber  int     `json:"pc_number"  validate:"min=0"`
	SessionID *string `json:"session_id" validate:"omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ProductID          string          `json:"product_id"`
	Product            string          `json:"product"`
	Quantity           int             `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	Notes              *string         `json:"notes,omitempty"`
	CookingPreferences map[string]int  `json:"cookingPreferences,omitempty"`
}

type OrderResponse struct {
	ID                string              `json:"id"`
	OrderDate         string              `json:"order_date"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	OrderAlias        string              `json:"order_alias"`
	SessionID         *string             `json:"session_id,omitempty"`
	TransactionNumber string              `json:"transaction_number"`
	Status            string              `json:"status"` // pending | confirmed
	Items             []OrderItemResponse `json:"items"`
	CreatedAt         string              `json:"created_at"`
}

type SaleResponse struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	SaleDate    string          `json:"sale_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalOrder  int             `json:"total_order"`
}

// SessionConflictResponse is the 409 body when a session already has a
// pending order at another station.
type SessionConflictResponse struct {
	Message  string `json:"message"`
	ActivePC string `json:"active_pc"`
}
