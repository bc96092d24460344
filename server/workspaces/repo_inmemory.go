package workspaces

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/itinerary"
	"github.com/jrsteele09/go-travel-booking/orchestrator"
	"github.com/jrsteele09/go-travel-booking/sessions"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/rs/zerolog"
)

// Dependencies are shared by every workspace.
type Dependencies struct {
	Store     sessions.KeyValueStore
	FlightAPI upstream.FlightAPI
	HotelAPI  upstream.HotelAPI
	Itinerary itinerary.Recorder
	Logger    zerolog.Logger
	NowTime   func() time.Time

	// IdleTTL is how long an unused workspace stays in memory. Defaults to
	// sessions.TTL, after which every session it held has expired anyway.
	IdleTTL time.Duration
	// SweepInterval is the minimum gap between idle sweeps. Defaults to a
	// minute.
	SweepInterval time.Duration
}

const defaultSweepInterval = time.Minute

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo keeps built workspaces in memory.
type InMemoryRepo struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
	deps       Dependencies
	lastSweep  time.Time
}

func NewInMemoryRepo(deps Dependencies) (*InMemoryRepo, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("[workspaces.NewInMemoryRepo] key-value store is required")
	}
	if deps.FlightAPI == nil {
		return nil, fmt.Errorf("[workspaces.NewInMemoryRepo] flight API is required")
	}
	if deps.HotelAPI == nil {
		return nil, fmt.Errorf("[workspaces.NewInMemoryRepo] hotel API is required")
	}
	if deps.Itinerary == nil {
		deps.Itinerary = itinerary.Nop{}
	}
	if deps.NowTime == nil {
		deps.NowTime = time.Now
	}
	if deps.IdleTTL <= 0 {
		deps.IdleTTL = sessions.TTL
	}
	if deps.SweepInterval <= 0 {
		deps.SweepInterval = defaultSweepInterval
	}
	return &InMemoryRepo{
		workspaces: make(map[string]*Workspace),
		deps:       deps,
		lastSweep:  deps.NowTime(),
	}, nil
}

// SessionKey is the persisted key of one workspace session slot.
func SessionKey(workspaceID, slot string) string {
	return fmt.Sprintf("workspace:%s:%s", workspaceID, slot)
}

// GetOrCreate returns the workspace for id and marks it as seen. Creating a
// workspace also sweeps idle ones once per SweepInterval, so clients that
// never come back do not pin memory.
func (r *InMemoryRepo) GetOrCreate(ctx context.Context, id string) (*Workspace, error) {
	if id == "" {
		return nil, fmt.Errorf("workspace id is required")
	}
	now := r.deps.NowTime()

	// touch runs under the read lock so a concurrent sweep sees it
	r.mu.RLock()
	ws, ok := r.workspaces[id]
	if ok {
		ws.touch(now)
	}
	r.mu.RUnlock()
	if ok {
		return ws, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.workspaces[id]; ok {
		ws.touch(now)
		return ws, nil
	}
	if now.Sub(r.lastSweep) >= r.deps.SweepInterval {
		r.evictIdleLocked(now)
	}

	ws, err := r.build(id)
	if err != nil {
		return nil, err
	}
	ws.Flights.Restore(ctx)
	ws.Hotels.Restore(ctx)
	ws.Trips.Restore(ctx)

	ws.touch(now)
	r.workspaces[id] = ws
	return ws, nil
}

// EvictIdle drops every workspace not seen within IdleTTL and returns how
// many went. Their persisted sessions stay in the key-value store.
func (r *InMemoryRepo) EvictIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictIdleLocked(r.deps.NowTime())
}

func (r *InMemoryRepo) evictIdleLocked(now time.Time) int {
	r.lastSweep = now
	cutoff := now.Add(-r.deps.IdleTTL)
	evicted := 0
	for id, ws := range r.workspaces {
		if ws.LastSeen().Before(cutoff) {
			delete(r.workspaces, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.deps.Logger.Debug().Int("evicted", evicted).Int("remaining", len(r.workspaces)).Msg("evicted idle workspaces")
	}
	return evicted
}

func (r *InMemoryRepo) build(id string) (*Workspace, error) {
	logger := r.deps.Logger.With().Str("workspace_id", id).Logger()
	storeOptions := []sessions.StoreOption{
		sessions.WithLogger(logger),
		sessions.WithNowTime(r.deps.NowTime),
	}
	options := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithNowTime(r.deps.NowTime),
		orchestrator.WithItinerary(r.deps.Itinerary),
	}

	flightStore, err := newStore[booking.FlightState](r.deps.Store, SessionKey(id, "flight"), storeOptions)
	if err != nil {
		return nil, err
	}
	hotelStore, err := newStore[booking.HotelState](r.deps.Store, SessionKey(id, "hotel"), storeOptions)
	if err != nil {
		return nil, err
	}
	tripStore, err := newStore[booking.TripState](r.deps.Store, SessionKey(id, "trip"), storeOptions)
	if err != nil {
		return nil, err
	}

	flights, err := orchestrator.NewFlightOrchestrator(flightStore, r.deps.FlightAPI, options...)
	if err != nil {
		return nil, err
	}
	hotels, err := orchestrator.NewHotelOrchestrator(hotelStore, r.deps.HotelAPI, options...)
	if err != nil {
		return nil, err
	}
	trips, err := orchestrator.NewCombinedOrchestrator(tripStore, flights, hotels, options...)
	if err != nil {
		return nil, err
	}

	return &Workspace{
		ID:        id,
		Flights:   flights,
		Hotels:    hotels,
		Trips:     trips,
		CreatedAt: r.deps.NowTime(),
	}, nil
}

func newStore[T any](kv sessions.KeyValueStore, key string, options []sessions.StoreOption) (*sessions.Store[T], error) {
	repo, err := sessions.NewKVRepository[T](kv, key)
	if err != nil {
		return nil, err
	}
	return sessions.NewStore[T](repo, options...)
}

func (r *InMemoryRepo) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("workspace id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workspaces, id)
	return nil
}

// Len returns the number of workspaces in memory.
func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}
