package dto

type ClaimStationRequest struct {
	PCNumber  int     `json:"pc_number"  validate:"required,min=1"`
	SessionID *string `json:"session_id" validate:"omitempty"`
}

type ClaimStationResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// StationLockedResponse is the 409 body when another session holds the lock.
type StationLockedResponse struct {
	Error    string `json:"error"`
	LockedBy string `json:"locked_by"`
}

type ReleaseStationRequest struct {
	PCNumber  int    `json:"pc_number"  validate:"required,min=1"`
	SessionID string `json:"session_id" validate:"required"`
}

type ReleaseStationResponse struct {
	Success bool `json:"success"`
}

type LockedStationsResponse struct {
	Locked map[string]string `json:"locked"` // station number → holder session id
}
