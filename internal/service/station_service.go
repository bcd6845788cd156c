package service

import (
	"context"
	"time"

	"canteenpos/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LockStore is the TTL key-value store backing the station locks. The
// production implementation is Redis (infra.RedisLockStore); tests use an
// in-memory store with an injected clock.
type LockStore interface {
	Get(ctx context.Context, station int) (string, error)
	Set(ctx context.Context, station int, sessionID string, ttl time.Duration) error
	Del(ctx context.Context, station int) error
	GetAll(ctx context.Context, max int) (map[int]string, error)
}

// StationService is the server-authoritative mutual exclusion over stations:
// two distinct customer sessions can never simultaneously own one station.
type StationService interface {
	Claim(ctx context.Context, station int, sessionID string) (string, error)
	Release(ctx context.Context, station int, sessionID string) error
	ListLocked(ctx context.Context) (map[int]string, error)
}

type stationService struct {
	store       LockStore
	bridge      notify.Bridge
	ttl         time.Duration
	maxStations int
}

func NewStationService(store LockStore, bridge notify.Bridge, ttl time.Duration, maxStations int) StationService {
	if bridge == nil {
		bridge = notify.Nop{}
	}
	return &stationService{store: store, bridge: bridge, ttl: ttl, maxStations: maxStations}
}

// Claim takes (or refreshes) the station lock. A re-claim by the session that
// already holds the lock succeeds and resets the expiry; a claim against a
// lock held by anyone else fails naming the holder. An empty sessionID gets a
// fresh one generated.
func (s *stationService) Claim(ctx context.Context, station int, sessionID string) (string, error) {
	if station < 1 || station > s.maxStations {
		return "", ErrStationOutOfRange
	}

	holder, err := s.store.Get(ctx, station)
	if err != nil {
		return "", err
	}
	if holder != "" && holder != sessionID {
		return "", &StationLockedError{Station: station, LockedBy: holder}
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if err := s.store.Set(ctx, station, sessionID, s.ttl); err != nil {
		return "", err
	}

	if err := s.bridge.Publish(ctx, notify.EventStationClaimed, notify.StationClaimed{
		Station:   station,
		SessionID: sessionID,
	}); err != nil {
		log.Warn().Err(err).Int("station", station).Msg("station claimed notification failed")
	}
	return sessionID, nil
}

// Release drops the lock, but only for the session that holds it.
func (s *stationService) Release(ctx context.Context, station int, sessionID string) error {
	if station < 1 || station > s.maxStations {
		return ErrStationOutOfRange
	}

	holder, err := s.store.Get(ctx, station)
	if err != nil {
		return err
	}
	if holder == "" {
		return ErrLockNotFound
	}
	if holder != sessionID {
		return ErrNotLockHolder
	}
	return s.store.Del(ctx, station)
}

// ListLocked enumerates all currently held stations (bounded scan 1..max).
func (s *stationService) ListLocked(ctx context.Context) (map[int]string, error) {
	return s.store.GetAll(ctx, s.maxStations)
}
