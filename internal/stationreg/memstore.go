package stationreg

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is a process-local Store: a mutex-guarded map standing in for the
// shared browser storage. Multiple Registry instances sharing one MemStore
// model multiple tabs of one browser.
type MemStore struct {
	mu      sync.Mutex
	entries map[string]Claim
}

func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]Claim)}
}

func memKey(station int, tabID string) string {
	return fmt.Sprintf("%d|%s", station, tabID)
}

func (s *MemStore) List(ctx context.Context) ([]Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Claim, 0, len(s.entries))
	for _, c := range s.entries {
		out = append(out, c)
	}
	return out, nil
}

func (s *MemStore) Put(ctx context.Context, c Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[memKey(c.Station, c.TabID)] = c
	return nil
}

func (s *MemStore) Delete(ctx context.Context, station int, tabID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, memKey(station, tabID))
	return nil
}
