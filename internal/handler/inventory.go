package handler

import (
	"net/http"

	"canteenpos/internal/apierror"
	"canteenpos/internal/dto"
	"canteenpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// AddStock godoc
// @Summary      Add stock
// @Description  Inserts a new positive ledger record (purchase or return). History is never mutated.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body body dto.AddStockRequest true "Stock entry"
// @Success      201 {object} dto.InventoryRecordResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/inventory [post]
func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req dto.AddStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rec, err := h.svc.AddStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.InventoryRecordResponse{
		ID:        rec.ID.String(),
		ProductID: rec.ProductID.String(),
		Quantity:  rec.Quantity,
		Type:      rec.Type,
		Source:    rec.Source,
		CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// Records godoc
// @Summary      List ledger records for a product
// @Tags         inventory
// @Produce      json
// @Param        productId path string true "Product UUID"
// @Success      200 {object} dto.InventoryListResponse
// @Router       /v1/inventory/{productId} [get]
func (h *InventoryHandler) Records(c *gin.Context) {
	pid, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	resp, err := h.svc.ListRecords(c.Request.Context(), pid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
