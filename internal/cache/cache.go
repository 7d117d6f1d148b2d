package cache

import (
	"strings"
	"sync"
)

// Store caches query results keyed by strings built from the query
// parameters. Correctness relies on invalidation after every mutation,
// not on live subscriptions; stale entries only survive until the next
// Changed notification for their scope.
type Store struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

func New() *Store {
	return &Store{entries: make(map[string]interface{})}
}

// Key builds a cache key from parameter parts.
func Key(parts ...string) string {
	return strings.Join(parts, "/")
}

func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

func (s *Store) Put(key string, v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = v
}

// Invalidate drops every entry whose key starts with prefix and returns
// the number of entries removed.
func (s *Store) Invalidate(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Notifier receives an opaque "something under this scope changed"
// signal after every successful mutation. The services are
// cache-agnostic; they only emit.
type Notifier interface {
	Changed(scope string)
}

// InvalidatingNotifier wires Changed signals to prefix invalidation.
type InvalidatingNotifier struct {
	Cache *Store
}

func (n InvalidatingNotifier) Changed(scope string) {
	n.Cache.Invalidate(scope)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Changed(string) {}
