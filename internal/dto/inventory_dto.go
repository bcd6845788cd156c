package dto

type AddStockRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
	Type      string `json:"type"       validate:"omitempty,oneof=purchase return"`
}

type InventoryRecordResponse struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Type      *string `json:"type,omitempty"`
	Source    *string `json:"source,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type InventoryListResponse struct {
	ProductID string                    `json:"product_id"`
	Available int                       `json:"available"`
	Records   []InventoryRecordResponse `json:"records"`
}
