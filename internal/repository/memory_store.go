package repository

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemoryStore keeps the Store contract in process-local maps. It exists
// for environments without a reachable Redis; nothing survives a restart.
// Expiry is honored lazily on read.
type MemoryStore struct {
	mu       sync.RWMutex
	sets     map[string]map[string]struct{}
	hashes   map[string]map[string]string
	deadline map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets:     make(map[string]map[string]struct{}),
		hashes:   make(map[string]map[string]string),
		deadline: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// expired reports and reaps a lapsed key. Caller must hold the write lock.
func (s *MemoryStore) expired(key string) bool {
	dl, ok := s.deadline[key]
	if !ok || time.Now().Before(dl) {
		return false
	}

	delete(s.sets, key)
	delete(s.hashes, key)
	delete(s.deadline, key)

	return true
}

func (s *MemoryStore) SAdd(_ context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)

	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}

	for _, m := range members {
		set[m] = struct{}{}
	}

	return nil
}

func (s *MemoryStore) SRem(_ context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired(key) {
		return nil
	}

	for _, m := range members {
		delete(s.sets[key], m)
	}

	return nil
}

func (s *MemoryStore) SMembers(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired(key) {
		return nil, nil
	}

	members := make([]string, 0, len(s.sets[key]))
	for m := range s.sets[key] {
		members = append(members, m)
	}

	return members, nil
}

func (s *MemoryStore) HSet(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)

	hash, ok := s.hashes[key]
	if !ok {
		hash = make(map[string]string)
		s.hashes[key] = hash
	}

	for k, v := range fields {
		hash[k] = v
	}

	return nil
}

func (s *MemoryStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired(key) {
		return map[string]string{}, nil
	}

	out := make(map[string]string, len(s.hashes[key]))
	for k, v := range s.hashes[key] {
		out[k] = v
	}

	return out, nil
}

func (s *MemoryStore) HIncrBy(_ context.Context, key, field string, incr int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)

	hash, ok := s.hashes[key]
	if !ok {
		hash = make(map[string]string)
		s.hashes[key] = hash
	}

	current, _ := strconv.ParseInt(hash[field], 10, 64)
	current += incr
	hash[field] = strconv.FormatInt(current, 10)

	return current, nil
}

func (s *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deadline[key] = time.Now().Add(ttl)

	return nil
}
