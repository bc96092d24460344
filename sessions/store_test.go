package sessions_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
	"github.com/jrsteele09/go-travel-booking/sessions"
	"github.com/jrsteele09/go-travel-booking/sessions/repofakes"
	"github.com/stretchr/testify/require"
)

const testKey = "flight"

type testData struct {
	Status string `json:"status"`
	Price  int    `json:"price"`
}

// manualTimer records a scheduled callback that the test fires by hand.
type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type testFixture struct {
	now    time.Time
	kv     *repofakes.FakeKVStore
	repo   *sessions.KVRepository[testData]
	store  *sessions.Store[testData]
	timers []*manualTimer
	ids    int
	mu     sync.Mutex
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		kv:  repofakes.NewFakeKVStore(),
	}

	repo, err := sessions.NewKVRepository[testData](f.kv, testKey)
	require.NoError(t, err)
	f.repo = repo

	f.store = f.newStore(t)
	t.Cleanup(f.store.Reset)
	return f
}

func (f *testFixture) newStore(t *testing.T) *sessions.Store[testData] {
	t.Helper()

	store, err := sessions.NewStore[testData](f.repo,
		sessions.WithNowTime(func() time.Time { return f.now }),
		sessions.WithAfterFunc(func(d time.Duration, fn func()) sessions.Timer {
			f.mu.Lock()
			defer f.mu.Unlock()
			timer := &manualTimer{d: d, f: fn}
			f.timers = append(f.timers, timer)
			return timer
		}),
		sessions.WithIDGenerator(func() string {
			f.ids++
			return fmt.Sprintf("session-%d", f.ids)
		}),
	)
	require.NoError(t, err)
	return store
}

func (f *testFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestNewStore_RequiresRepo(t *testing.T) {
	_, err := sessions.NewStore[testData](nil)
	require.Error(t, err)
}

func TestNewKVRepository_Validation(t *testing.T) {
	_, err := sessions.NewKVRepository[testData](nil, "k")
	require.Error(t, err)

	_, err = sessions.NewKVRepository[testData](repofakes.NewFakeKVStore(), "")
	require.Error(t, err)
}

func TestStart_SetsFixedTTLAndPersists(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	s := f.store.Start(ctx, "trace-1", testData{Status: "repricing", Price: 500})

	require.Equal(t, "session-1", s.ID)
	require.Equal(t, "trace-1", s.CorrelationID)
	require.Equal(t, f.now, s.CreatedAt)
	require.Equal(t, s.CreatedAt.Add(30*time.Minute), s.ExpiresAt)

	_, ok := f.kv.Raw(testKey)
	require.True(t, ok)

	require.Len(t, f.timers, 1)
	require.Equal(t, sessions.TTL, f.timers[0].d)
}

func TestStart_TwiceLeavesOneSessionAndStopsFirstTimer(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	first := f.store.Start(ctx, "trace-1", testData{Status: "repricing"})
	second := f.store.Start(ctx, "trace-2", testData{Status: "repricing"})
	require.NotEqual(t, first.ID, second.ID)

	current, ok := f.store.Current(ctx)
	require.True(t, ok)
	require.Equal(t, second.ID, current.ID)

	require.Len(t, f.timers, 2)
	require.True(t, f.timers[0].stopped)
	require.False(t, f.timers[1].stopped)

	// A stale callback firing late must not clear the replacement session.
	f.timers[0].f()
	current, ok = f.store.Current(ctx)
	require.True(t, ok)
	require.Equal(t, second.ID, current.ID)
}

func TestCurrent_ExpiredSessionIsPurged(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.Start(ctx, "trace-1", testData{})

	f.advance(sessions.TTL)
	_, ok := f.store.Current(ctx)
	require.True(t, ok, "session is live up to and including expiresAt")

	f.advance(time.Millisecond)
	_, ok = f.store.Current(ctx)
	require.False(t, ok)

	_, persisted := f.kv.Raw(testKey)
	require.False(t, persisted)
}

func TestUpdate_NoSession(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.store.Update(context.Background(), func(d *testData) { d.Price = 1 })
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)
}

func TestUpdate_ExpiredSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.Start(ctx, "trace-1", testData{})
	f.advance(sessions.TTL + time.Second)

	_, err := f.store.Update(ctx, func(d *testData) { d.Price = 1 })
	require.ErrorIs(t, err, apperrors.ErrSessionExpired)

	_, ok := f.store.Current(ctx)
	require.False(t, ok)
	_, persisted := f.kv.Raw(testKey)
	require.False(t, persisted)
}

func TestUpdate_MergesAndPersists(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started := f.store.Start(ctx, "trace-1", testData{Status: "repricing", Price: 100})
	updated, err := f.store.Update(ctx, func(d *testData) { d.Status = "confirmed" })
	require.NoError(t, err)
	require.Equal(t, "confirmed", updated.Data.Status)
	require.Equal(t, 100, updated.Data.Price)
	require.Equal(t, started.ExpiresAt, updated.ExpiresAt)

	loaded, err := f.repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "confirmed", loaded.Data.Status)
}

func TestUpdate_PersistenceFailureDoesNotFail(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.Start(ctx, "trace-1", testData{})
	f.kv.FailWrites(true)

	updated, err := f.store.Update(ctx, func(d *testData) { d.Price = 42 })
	require.NoError(t, err)
	require.Equal(t, 42, updated.Data.Price)
}

func TestClear_IsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.Clear(ctx)

	f.store.Start(ctx, "trace-1", testData{})
	f.store.Clear(ctx)
	f.store.Clear(ctx)

	_, ok := f.store.Current(ctx)
	require.False(t, ok)
	require.Equal(t, 0, f.kv.Len())
	require.True(t, f.timers[0].stopped)

	f.kv.FailWrites(true)
	f.store.Clear(ctx)
}

func TestTimerFiring_ClearsSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.Start(ctx, "trace-1", testData{})
	f.timers[0].f()

	_, ok := f.store.Current(ctx)
	require.False(t, ok)
	require.Equal(t, 0, f.kv.Len())
}

func TestRestore_ReloadsLiveSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	started := f.store.Start(ctx, "trace-1", testData{Status: "seats", Price: 700})
	f.advance(10 * time.Minute)

	restarted := f.newStore(t)
	defer restarted.Reset()

	restored, ok := restarted.Restore(ctx)
	require.True(t, ok)
	require.Equal(t, started.ID, restored.ID)
	require.True(t, started.ExpiresAt.Equal(restored.ExpiresAt))
	require.Equal(t, "seats", restored.Data.Status)

	current, ok := restarted.Current(ctx)
	require.True(t, ok)
	require.Equal(t, started.ID, current.ID)

	last := f.timers[len(f.timers)-1]
	require.Equal(t, 20*time.Minute, last.d)
}

func TestRestore_ExpiredSessionIsCleared(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.Start(ctx, "trace-1", testData{})
	f.store.Reset()
	f.advance(31 * time.Minute)

	_, ok := f.store.Restore(ctx)
	require.False(t, ok)
	require.Equal(t, 0, f.kv.Len())
}

func TestRestore_CorruptPayloadIsCleared(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.kv.Put(testKey, "{not json")
	_, ok := f.store.Restore(ctx)
	require.False(t, ok)
	require.Equal(t, 0, f.kv.Len())

	f.kv.Put(testKey, `{"correlationId":"trace-1"}`)
	_, ok = f.store.Restore(ctx)
	require.False(t, ok)
	require.Equal(t, 0, f.kv.Len())
}

func TestRestore_ReadFailureReturnsNoSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.Start(ctx, "trace-1", testData{})
	f.store.Reset()
	f.kv.FailReads(true)

	_, ok := f.store.Restore(ctx)
	require.False(t, ok)
}

func TestRestore_NothingPersisted(t *testing.T) {
	f := setupTestFixture(t)

	_, ok := f.store.Restore(context.Background())
	require.False(t, ok)
}

func TestRepositoryLoad_CorruptIsPersistenceError(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.repo.Load(ctx)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	f.kv.Put(testKey, "[]")
	_, err = f.repo.Load(ctx)
	require.ErrorIs(t, err, apperrors.ErrPersistence)
}
