package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryOTPStore implements OTPStore using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryOTPStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	entries   map[int64]Challenge
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryOTPStore creates a new in-memory OTP store.
// It starts a background goroutine to clean up expired challenges.
func NewInMemoryOTPStore(ttl time.Duration) *InMemoryOTPStore {
	store := &InMemoryOTPStore{
		ttl:      ttl,
		entries:  make(map[int64]Challenge),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Put stores a challenge, replacing any pending one for the same key
func (s *InMemoryOTPStore) Put(ctx context.Context, nationalID int64, challenge Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[nationalID] = challenge
	return nil
}

// Get returns the pending challenge, treating expired entries as absent.
// Expiry is checked here as well as in the sweep so a challenge can never
// be honored past its TTL.
func (s *InMemoryOTPStore) Get(ctx context.Context, nationalID int64) (*Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	challenge, exists := s.entries[nationalID]
	if !exists {
		return nil, nil
	}
	if time.Since(challenge.IssuedAt) > s.ttl {
		return nil, nil
	}
	return &challenge, nil
}

// Remove deletes the pending challenge, if any
func (s *InMemoryOTPStore) Remove(ctx context.Context, nationalID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, nationalID)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryOTPStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired challenges
func (s *InMemoryOTPStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired challenges from the store
func (s *InMemoryOTPStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for nationalID, challenge := range s.entries {
		if time.Since(challenge.IssuedAt) > s.ttl {
			delete(s.entries, nationalID)
		}
	}
}
