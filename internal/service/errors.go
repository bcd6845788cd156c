package service

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP status codes in the handler layer.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrAlreadyConfirmed  = errors.New("order already has a sale attached")
	ErrLockNotFound      = errors.New("station is not locked")
	ErrNotLockHolder     = errors.New("session does not hold the station lock")
	ErrCategoryInUse     = errors.New("category still has products assigned")
	ErrStationOutOfRange = errors.New("station number out of range")
)

// InsufficientStockError names the product (or bundle component) that ran
// short, with the available vs. needed amounts the client shows the customer.
type InsufficientStockError struct {
	Product   string
	Available int
	Needed    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d needed", e.Product, e.Available, e.Needed)
}

// SessionConflictError rejects a placement when the session already has a
// pending order attributed to a different station.
type SessionConflictError struct {
	ActivePC string
}

func (e *SessionConflictError) Error() string {
	return fmt.Sprintf("session already has a pending order at %s", e.ActivePC)
}

// StationLockedError rejects a claim when another session holds the lock.
type StationLockedError struct {
	Station  int
	LockedBy string
}

func (e *StationLockedError) Error() string {
	return fmt.Sprintf("station %d is locked by another session", e.Station)
}
