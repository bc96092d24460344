package repofakes

import (
	"context"
	"errors"
	"sync"

	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
	"github.com/jrsteele09/go-travel-booking/sessions"
)

var _ sessions.KeyValueStore = (*FakeKVStore)(nil)

// ErrStoreUnavailable is returned by a FakeKVStore set to fail.
var ErrStoreUnavailable = errors.New("fake store unavailable")

// FakeKVStore is an in-memory KeyValueStore. It is also the store used for
// local runs without Redis.
type FakeKVStore struct {
	values     map[string]string
	failWrites bool
	failReads  bool
	lock       sync.RWMutex
}

func NewFakeKVStore() *FakeKVStore {
	return &FakeKVStore{
		values: make(map[string]string),
	}
}

func (s *FakeKVStore) Get(_ context.Context, key string) (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.failReads {
		return "", ErrStoreUnavailable
	}
	value, ok := s.values[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return value, nil
}

func (s *FakeKVStore) Set(_ context.Context, key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.failWrites {
		return ErrStoreUnavailable
	}
	s.values[key] = value
	return nil
}

func (s *FakeKVStore) Remove(_ context.Context, key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.failWrites {
		return ErrStoreUnavailable
	}
	delete(s.values, key)
	return nil
}

// FailWrites makes Set and Remove fail until called again with false.
func (s *FakeKVStore) FailWrites(fail bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failWrites = fail
}

// FailReads makes Get fail until called again with false.
func (s *FakeKVStore) FailReads(fail bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failReads = fail
}

// Put stores a raw value, bypassing failure injection.
func (s *FakeKVStore) Put(key, value string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values[key] = value
}

// Raw returns the stored value and whether the key exists.
func (s *FakeKVStore) Raw(key string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Len returns the number of stored keys.
func (s *FakeKVStore) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.values)
}
