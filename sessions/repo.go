package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
)

// KeyValueStore is the persisted string store sessions are written to so
// they survive a process restart. No transactional guarantees are assumed.
type KeyValueStore interface {
	// Get returns the value for key, or apperrors.ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Remove deletes key; removing a missing key is not an error
	Remove(ctx context.Context, key string) error
}

// Repository persists the single session slot of one orchestrator.
type Repository[T any] interface {
	// Save writes the session, replacing whatever was stored
	Save(ctx context.Context, session Session[T]) error

	// Load returns the stored session. A missing entry returns
	// apperrors.ErrNotFound; an unreadable one returns an error wrapping
	// apperrors.ErrPersistence.
	Load(ctx context.Context) (Session[T], error)

	// Clear removes the stored session
	Clear(ctx context.Context) error
}

// KVRepository stores a session as JSON under a fixed key.
type KVRepository[T any] struct {
	store KeyValueStore
	key   string
}

var _ Repository[struct{}] = (*KVRepository[struct{}])(nil)

// NewKVRepository creates a repository keeping its session under key.
func NewKVRepository[T any](store KeyValueStore, key string) (*KVRepository[T], error) {
	if store == nil {
		return nil, fmt.Errorf("[NewKVRepository] store is required")
	}
	if key == "" {
		return nil, fmt.Errorf("[NewKVRepository] key is required")
	}
	return &KVRepository[T]{store: store, key: key}, nil
}

// Key returns the storage key of this repository.
func (r *KVRepository[T]) Key() string {
	return r.key
}

func (r *KVRepository[T]) Save(ctx context.Context, session Session[T]) error {
	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrPersistence, "marshal session %s: %v", session.ID, err)
	}
	if err := r.store.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func (r *KVRepository[T]) Load(ctx context.Context) (Session[T], error) {
	var session Session[T]

	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return session, apperrors.ErrNotFound
		}
		return session, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return session, fmt.Errorf("%w: corrupt session payload: %v", apperrors.ErrPersistence, err)
	}
	if session.ID == "" || session.ExpiresAt.IsZero() {
		return session, fmt.Errorf("%w: incomplete session payload", apperrors.ErrPersistence)
	}
	return session, nil
}

func (r *KVRepository[T]) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, r.key); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return nil
}
