package handler

import (
	"net/http"
	"strconv"

	"canteenpos/internal/apierror"
	"canteenpos/internal/dto"
	"canteenpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// PlaceOrder godoc
// @Summary      Place a new order
// @Description  Creates an order ACID: validates and deducts stock (bundle-aware), snapshots prices, assigns the transaction number.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body body dto.PlaceOrderRequest true "Order detail"
// @Success      201  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError "insufficient stock or domain error"
// @Failure      409  {object} dto.SessionConflictResponse "session already active at another station"
// @Router       /v1/orders [post]
func (h *OrdersHandler) PlaceOrder(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ByStation godoc
// @Summary      List orders for a station
// @Description  Returns every order (any status) attributed to the station alias.
// @Tags         orders
// @Produce      json
// @Param        pcNumber path int true "Station number (0 = walk-in)"
// @Success      200 {array} dto.OrderResponse
// @Router       /v1/orders/by-pc/{pcNumber} [get]
func (h *OrdersHandler) ByStation(c *gin.Context) {
	station, err := strconv.Atoi(c.Param("pcNumber"))
	if err != nil || station < 0 {
		c.JSON(http.StatusBadRequest, apierror.New("invalid station number"))
		return
	}
	resp, err := h.svc.OrdersByStation(c.Request.Context(), station)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BySession godoc
// @Summary      List pending orders for a session
// @Description  Returns only orders without an attached sale for that session.
// @Tags         orders
// @Produce      json
// @Param        sessionId path string true "Session id"
// @Success      200 {array} dto.OrderResponse
// @Router       /v1/orders/by-session/{sessionId} [get]
func (h *OrdersHandler) BySession(c *gin.Context) {
	resp, err := h.svc.PendingBySession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Completed godoc
// @Summary      List completed orders
// @Description  Returns orders with a sale attached.
// @Tags         orders
// @Produce      json
// @Success      200 {array} dto.OrderResponse
// @Router       /v1/orders/completed [get]
func (h *OrdersHandler) Completed(c *gin.Context) {
	resp, err := h.svc.CompletedOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Confirm godoc
// @Summary      Confirm an order
// @Description  Creates the sale record marking the order completed. Idempotency: a second confirmation returns 409.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order UUID"
// @Success      201 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError "already confirmed"
// @Router       /v1/orders/{id}/confirm [post]
func (h *OrdersHandler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}
	resp, err := h.svc.ConfirmOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Restores all deducted stock, removes line items, any attached sale, and the order — atomically.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order UUID"
// @Success      200 {object} map[string]string
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id}/cancel [patch]
func (h *OrdersHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}
	if err := h.svc.CancelOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order cancelled and stock restored"})
}
