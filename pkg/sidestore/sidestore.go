package sidestore

import (
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
)

// ErrNotFound is returned when a key has no value (or it expired).
var ErrNotFound = errors.New("sidestore: key not found")

// Store is a best-effort key/value side store for cosmetic session
// bookkeeping (scroll positions, recorder mount tokens, oauth state).
// Failures here must never be fatal to a request; callers are expected to
// log and move on.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string, ttl time.Duration) error
	Remove(key string) error
}

// Well-known key prefixes. Keys are namespaced per session id.
const (
	KeyScrollPosition = "eras:scroll-position:"
	KeyScrollTab      = "eras:scroll-tab:"
	KeyMountToken     = "eras:last-mount-id:"
	KeyOAuthState     = "eras:oauth-state:"
)

// MemoryStore keeps values in-process with per-entry TTL.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	// Default expiration 1 hour, purge sweep every 10 minutes.
	return &MemoryStore{cache: cache.New(1*time.Hour, 10*time.Minute)}
}

func (s *MemoryStore) Get(key string) (string, error) {
	if v, found := s.cache.Get(key); found {
		return v.(string), nil
	}
	return "", ErrNotFound
}

func (s *MemoryStore) Set(key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.cache.Delete(key)
	return nil
}
