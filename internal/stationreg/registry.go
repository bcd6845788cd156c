// Package stationreg assigns each client window a small integer station
// number without any server round-trip, the way browser tabs coordinate over
// shared storage: write a tentative claim, wait a short settle interval,
// re-read, and resolve collisions by earliest timestamp. The registry is
// advisory — the server-side station lock remains authoritative — and it
// never blocks ordering: after exhausting retries it degrades to a shared
// fallback number.
package stationreg

import (
	"context"
	"math/rand"
	"time"
)

const (
	maxAttempts = 5
	// settleBase grows per attempt so later retries give slower peers more
	// time to propagate their claims.
	settleBase = 40 * time.Millisecond
	jitterSpan = 25 * time.Millisecond

	// FallbackStation is handed out when every attempt lost its collision.
	// Degraded mode: two windows can share it, orders still go through but
	// may be attributed to the same alias.
	FallbackStation = 99
)

// Claim is one tentative station claim entry in the shared store.
type Claim struct {
	Station   int
	TabID     string
	Timestamp int64 // unix milliseconds, the collision tiebreaker
}

// Store is the shared claim medium. Implementations only need plain
// list/put/delete — the protocol assumes no compare-and-swap.
type Store interface {
	List(ctx context.Context) ([]Claim, error)
	Put(ctx context.Context, c Claim) error
	Delete(ctx context.Context, station int, tabID string) error
}

// Registry runs the claim protocol for one window/tab.
type Registry struct {
	store Store
	tabID string

	current int

	// injected for deterministic tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	rnd   *rand.Rand
}

func New(store Store, tabID string) *Registry {
	return &Registry{
		store: store,
		tabID: tabID,
		now:   time.Now,
		sleep: sleepCtx,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Station returns the currently owned station, 0 if none.
func (r *Registry) Station() int { return r.current }

// Assign returns this tab's station number, claiming one if needed.
// A remembered station is re-validated against the store before reuse.
func (r *Registry) Assign(ctx context.Context) (int, error) {
	if r.current != 0 {
		owned, err := r.owns(ctx, r.current)
		if err != nil {
			return 0, err
		}
		if owned || r.current == FallbackStation {
			return r.current, nil
		}
		r.current = 0
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		claims, err := r.store.List(ctx)
		if err != nil {
			return 0, err
		}
		station := lowestFree(claims)

		mine := Claim{Station: station, TabID: r.tabID, Timestamp: r.now().UnixMilli()}
		if err := r.store.Put(ctx, mine); err != nil {
			return 0, err
		}

		// Settle interval: let concurrent claims from other tabs surface
		// before deciding who won.
		settle := time.Duration(attempt)*settleBase + r.jitter()
		if err := r.sleep(ctx, settle); err != nil {
			return 0, err
		}

		claims, err = r.store.List(ctx)
		if err != nil {
			return 0, err
		}
		contenders := claimsFor(claims, station)

		// A winner may have cleared our claim and released the station again
		// before the re-read. Our entry is already gone; count it as a lost
		// round and retry.
		if len(contenders) == 0 {
			if err := r.sleep(ctx, r.jitter()); err != nil {
				return 0, err
			}
			continue
		}

		if len(contenders) == 1 && contenders[0].TabID == r.tabID {
			r.current = station
			return station, nil
		}

		winner := earliest(contenders)
		if winner.TabID == r.tabID {
			// Winner also clears the losers' entries so their numbers free
			// up immediately.
			for _, c := range contenders {
				if c.TabID != r.tabID {
					_ = r.store.Delete(ctx, station, c.TabID)
				}
			}
			r.current = station
			return station, nil
		}

		// Lost the tie — withdraw and retry with backoff.
		if err := r.store.Delete(ctx, station, r.tabID); err != nil {
			return 0, err
		}
		if err := r.sleep(ctx, r.jitter()); err != nil {
			return 0, err
		}
	}

	r.current = FallbackStation
	return FallbackStation, nil
}

// Release removes every claim owned by this tab. Invoked on window teardown.
func (r *Registry) Release(ctx context.Context) error {
	claims, err := r.store.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range claims {
		if c.TabID == r.tabID {
			if err := r.store.Delete(ctx, c.Station, c.TabID); err != nil {
				return err
			}
		}
	}
	r.current = 0
	return nil
}

func (r *Registry) owns(ctx context.Context, station int) (bool, error) {
	claims, err := r.store.List(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range claimsFor(claims, station) {
		if c.TabID == r.tabID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Registry) jitter() time.Duration {
	return time.Duration(r.rnd.Int63n(int64(jitterSpan)))
}

func lowestFree(claims []Claim) int {
	taken := make(map[int]bool, len(claims))
	for _, c := range claims {
		taken[c.Station] = true
	}
	for n := 1; ; n++ {
		if !taken[n] {
			return n
		}
	}
}

func claimsFor(claims []Claim, station int) []Claim {
	var out []Claim
	for _, c := range claims {
		if c.Station == station {
			out = append(out, c)
		}
	}
	return out
}

// earliest picks the winning claim: lowest timestamp, tab id as the
// deterministic tiebreaker for identical instants.
func earliest(claims []Claim) Claim {
	best := claims[0]
	for _, c := range claims[1:] {
		if c.Timestamp < best.Timestamp ||
			(c.Timestamp == best.Timestamp && c.TabID < best.TabID) {
			best = c
		}
	}
	return best
}
