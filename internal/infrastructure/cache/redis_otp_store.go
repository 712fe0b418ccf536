package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOTPStore implements OTPStore using Redis.
// This is suitable for distributed deployments where multiple instances
// need to share pending challenges. Expiry is enforced by the key TTL.
type RedisOTPStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisOTPStore creates a new Redis-based OTP store
func NewRedisOTPStore(client *redis.Client, ttl time.Duration) *RedisOTPStore {
	return &RedisOTPStore{
		client:    client,
		keyPrefix: "enrollment:otp:",
		ttl:       ttl,
	}
}

// Put stores a challenge with the configured TTL, replacing any pending one
func (s *RedisOTPStore) Put(ctx context.Context, nationalID int64, challenge Challenge) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("failed to encode challenge: %w", err)
	}
	if err := s.client.Set(ctx, s.key(nationalID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	return nil
}

// Get returns the pending challenge, or nil after the key has expired
func (s *RedisOTPStore) Get(ctx context.Context, nationalID int64) (*Challenge, error) {
	payload, err := s.client.Get(ctx, s.key(nationalID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}

	var challenge Challenge
	if err := json.Unmarshal(payload, &challenge); err != nil {
		return nil, fmt.Errorf("failed to decode challenge: %w", err)
	}
	return &challenge, nil
}

// Remove deletes the pending challenge, if any
func (s *RedisOTPStore) Remove(ctx context.Context, nationalID int64) error {
	if err := s.client.Del(ctx, s.key(nationalID)).Err(); err != nil {
		return fmt.Errorf("failed to remove challenge: %w", err)
	}
	return nil
}

func (s *RedisOTPStore) key(nationalID int64) string {
	return fmt.Sprintf("%s%d", s.keyPrefix, nationalID)
}
