package handler

import (
	"net/http"
	"strconv"

	"canteenpos/internal/dto"
	"canteenpos/internal/service"

	"github.com/gin-gonic/gin"
)

type StationsHandler struct{ svc service.StationService }

func NewStationsHandler(svc service.StationService) *StationsHandler {
	return &StationsHandler{svc: svc}
}

// Claim godoc
// @Summary      Claim a station lock
// @Description  Takes (or refreshes) the server-side station lock. Re-claims by the holding session succeed; anyone else gets 409 naming the holder.
// @Tags         pc-session
// @Accept       json
// @Produce      json
// @Param        body body dto.ClaimStationRequest true "Station and optional session"
// @Success      200 {object} dto.ClaimStationResponse
// @Failure      409 {object} dto.StationLockedResponse
// @Router       /v1/pc-session/claim [post]
func (h *StationsHandler) Claim(c *gin.Context) {
	var req dto.ClaimStationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sessionID := ""
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}
	granted, err := h.svc.Claim(c.Request.Context(), req.PCNumber, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ClaimStationResponse{Success: true, SessionID: granted})
}

// Release godoc
// @Summary      Release a station lock
// @Description  Succeeds only for the session that holds the lock.
// @Tags         pc-session
// @Accept       json
// @Produce      json
// @Param        body body dto.ReleaseStationRequest true "Station and session"
// @Success      200 {object} dto.ReleaseStationResponse
// @Failure      403 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pc-session/release [post]
func (h *StationsHandler) Release(c *gin.Context) {
	var req dto.ReleaseStationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Release(c.Request.Context(), req.PCNumber, req.SessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReleaseStationResponse{Success: true})
}

// Locked godoc
// @Summary      List locked stations
// @Description  Bounded scan over all stations; returns station → holding session id.
// @Tags         pc-session
// @Produce      json
// @Success      200 {object} dto.LockedStationsResponse
// @Router       /v1/pc-session/locked [get]
func (h *StationsHandler) Locked(c *gin.Context) {
	locked, err := h.svc.ListLocked(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make(map[string]string, len(locked))
	for station, holder := range locked {
		out[strconv.Itoa(station)] = holder
	}
	c.JSON(http.StatusOK, dto.LockedStationsResponse{Locked: out})
}
