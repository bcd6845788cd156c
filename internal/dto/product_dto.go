package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Name       string `form:"name"`
	CategoryID string `form:"category_id"`
	Status     string `form:"status"` // active | archived | out_of_stock | all; empty hides archived
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=1"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"       validate:"required"`
	CategoryID  *string         `json:"category_id" validate:"omitempty,uuid"`
	Stockable   *bool           `json:"stockable"`
	// InitialStock creates an opening purchase record when > 0.
	InitialStock int `json:"initial_stock" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=1"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"       validate:"required"`
	CategoryID  *string         `json:"category_id" validate:"omitempty,uuid"`
	Stockable   *bool           `json:"stockable"`
}

type AddComponentRequest struct {
	ComponentID string `json:"component_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity"     validate:"required,min=1"`
}

type ComponentResponse struct {
	ComponentID string `json:"component_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Stockable   bool   `json:"stockable"`
}

type ProductResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	Price       decimal.Decimal     `json:"price"`
	CategoryID  *string             `json:"category_id,omitempty"`
	Category    string              `json:"category,omitempty"`
	Stockable   bool                `json:"stockable"`
	Bundle      bool                `json:"bundle"`
	Status      string              `json:"status"`
	Components  []ComponentResponse `json:"components,omitempty"`
	CreatedAt   string              `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// StockResponse reports availability for a product: direct ledger sum for
// simple products, component-derived bottleneck for bundles.
type StockResponse struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
	Bundle    bool   `json:"bundle"`
	// Unlimited is set for non-stockable products and bundles with no
	// stockable component.
	Unlimited bool `json:"unlimited"`
}
