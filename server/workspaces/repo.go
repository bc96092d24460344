// Package workspaces binds each booking client to its own set of
// orchestrators. A workspace's sessions are persisted under keys derived
// from its id, so a client reconnecting after a restart gets them back.
package workspaces

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/go-travel-booking/orchestrator"
)

// Workspace is the booking state of one client.
type Workspace struct {
	ID        string
	Flights   *orchestrator.FlightOrchestrator
	Hotels    *orchestrator.HotelOrchestrator
	Trips     *orchestrator.CombinedOrchestrator
	CreatedAt time.Time

	// unix nanoseconds of the last GetOrCreate that returned this workspace
	lastSeen atomic.Int64
}

// LastSeen is when the workspace was last resolved for a request.
func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load()).UTC()
}

func (w *Workspace) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

type Repo interface {
	// GetOrCreate returns the workspace for id, building it and restoring
	// its persisted sessions on first use.
	GetOrCreate(ctx context.Context, id string) (*Workspace, error)

	// Delete forgets the in-memory workspace. Persisted sessions are kept
	// until they expire.
	Delete(id string) error
}
