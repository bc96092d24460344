package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
	"github.com/rs/zerolog"
)

// Timer is a pending expiry callback.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. It matches time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

type storeSettings struct {
	logger    zerolog.Logger
	nowTime   func() time.Time
	afterFunc AfterFunc
	newID     func() string
}

// StoreOption configures a Store.
type StoreOption func(*storeSettings)

// WithLogger sets the logger used for persistence failures and expiry.
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *storeSettings) {
		s.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *storeSettings) {
		s.nowTime = nowFunc
	}
}

// WithAfterFunc replaces the expiry timer scheduler (primarily for testing)
func WithAfterFunc(afterFunc AfterFunc) StoreOption {
	return func(s *storeSettings) {
		s.afterFunc = afterFunc
	}
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *storeSettings) {
		s.newID = newID
	}
}

// Store is a single-slot session container. It holds at most one live
// session; starting another replaces it. Every read and write checks the
// expiry first, so the timer is only a cleanup aid.
type Store[T any] struct {
	repo     Repository[T]
	settings storeSettings

	mu      sync.Mutex
	current *Session[T]
	timer   Timer
}

// NewStore creates a Store persisting through repo.
func NewStore[T any](repo Repository[T], options ...StoreOption) (*Store[T], error) {
	if repo == nil {
		return nil, errors.New("[NewStore] repo is required")
	}

	settings := storeSettings{
		logger:  zerolog.Nop(),
		nowTime: time.Now,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range options {
		opt(&settings)
	}

	return &Store[T]{repo: repo, settings: settings}, nil
}

// Start creates a new session in place of any existing one.
func (s *Store[T]) Start(ctx context.Context, correlationID string, data T) Session[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.settings.logger.Debug().Str("session_id", s.current.ID).Msg("discarding previous session")
	}
	s.discardLocked(ctx)

	now := s.settings.nowTime()
	session := Session[T]{
		ID:            s.settings.newID(),
		CorrelationID: correlationID,
		CreatedAt:     now,
		ExpiresAt:     now.Add(TTL),
		Data:          data,
	}
	s.current = &session
	s.persistLocked(ctx)
	s.armLocked(session.ID, TTL)

	return session
}

// Current returns the live session. An expired session is purged and
// reported as absent.
func (s *Store[T]) Current(ctx context.Context) (Session[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Session[T]{}, false
	}
	if s.current.Expired(s.settings.nowTime()) {
		s.settings.logger.Info().Str("session_id", s.current.ID).Msg("session expired on read")
		s.discardLocked(ctx)
		return Session[T]{}, false
	}
	return *s.current, true
}

// Get is Current with the failure spelled out: ErrNoActiveSession when
// nothing is live, ErrSessionExpired (after purging) when it has expired.
func (s *Store[T]) Get(ctx context.Context) (Session[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Session[T]{}, apperrors.ErrNoActiveSession
	}
	if s.current.Expired(s.settings.nowTime()) {
		s.settings.logger.Info().Str("session_id", s.current.ID).Msg("session expired on read")
		s.discardLocked(ctx)
		return Session[T]{}, apperrors.ErrSessionExpired
	}
	return *s.current, nil
}

// Update applies mutate to the live session data and persists the result.
// It fails with ErrNoActiveSession when there is no session and with
// ErrSessionExpired (after purging) when the session has expired.
func (s *Store[T]) Update(ctx context.Context, mutate func(data *T)) (Session[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Session[T]{}, apperrors.ErrNoActiveSession
	}
	if s.current.Expired(s.settings.nowTime()) {
		s.settings.logger.Info().Str("session_id", s.current.ID).Msg("update rejected, session expired")
		s.discardLocked(ctx)
		return Session[T]{}, apperrors.ErrSessionExpired
	}

	mutate(&s.current.Data)
	s.persistLocked(ctx)
	return *s.current, nil
}

// Clear drops the session from memory and the persisted store. It is safe
// to call when nothing is active.
func (s *Store[T]) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discardLocked(ctx)
}

// Restore reloads the persisted session, e.g. after a restart. Missing,
// unreadable or expired entries are cleared and reported as absent.
func (s *Store[T]) Restore(ctx context.Context) (Session[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Load(ctx)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			s.settings.logger.Warn().Err(err).Msg("discarding unreadable persisted session")
			s.clearPersistedLocked(ctx)
		}
		return Session[T]{}, false
	}

	now := s.settings.nowTime()
	if session.Expired(now) {
		s.settings.logger.Info().Str("session_id", session.ID).Msg("persisted session already expired")
		s.clearPersistedLocked(ctx)
		return Session[T]{}, false
	}

	s.stopTimerLocked()
	s.current = &session
	s.armLocked(session.ID, session.Remaining(now))
	return session, true
}

// Reset forgets the in-memory session and stops its timer without touching
// the persisted copy. It is the teardown hook for tests and shutdown.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.current = nil
}

func (s *Store[T]) discardLocked(ctx context.Context) {
	s.stopTimerLocked()
	s.current = nil
	s.clearPersistedLocked(ctx)
}

func (s *Store[T]) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Store[T]) armLocked(sessionID string, d time.Duration) {
	s.timer = s.settings.afterFunc(d, func() {
		s.expire(sessionID)
	})
}

// expire runs from the timer. A session replaced or cleared in the
// meantime has a different id and is left alone.
func (s *Store[T]) expire(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.ID != sessionID {
		return
	}
	s.settings.logger.Info().Str("session_id", sessionID).Msg("session timer fired")
	s.timer = nil
	s.current = nil
	s.clearPersistedLocked(context.Background())
}

func (s *Store[T]) persistLocked(ctx context.Context) {
	if err := s.repo.Save(ctx, *s.current); err != nil {
		s.settings.logger.Error().Err(err).Str("session_id", s.current.ID).Msg("failed to persist session")
	}
}

func (s *Store[T]) clearPersistedLocked(ctx context.Context) {
	if err := s.repo.Clear(ctx); err != nil {
		s.settings.logger.Error().Err(err).Msg("failed to clear persisted session")
	}
}
