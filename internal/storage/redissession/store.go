// Package redissession binds session tokens to cart ids in Redis.
package redissession

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/StpaPSBB/storefront/internal/domain/cart"
)

const keyPrefix = "storefront:session:"

var _ cart.SessionStore = (*Store)(nil)

// Store implements cart.SessionStore on a Redis client. Entries expire with
// the session TTL; an expired entry simply means a new cart on next use.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Store talking to the Redis instance at addr.
func New(addr, password string, ttl time.Duration) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		ttl:    ttl,
	}
}

// Ping checks connectivity, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// GetCartID returns the cart id bound to the token, or "" when the binding
// does not exist or has expired.
func (s *Store) GetCartID(ctx context.Context, token string) (string, error) {
	id, err := s.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "session get")
	}
	return id, nil
}

// SetCartID binds the token to a cart id, refreshing the TTL.
func (s *Store) SetCartID(ctx context.Context, token, cartID string) error {
	if err := s.client.Set(ctx, keyPrefix+token, cartID, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "session set")
	}
	return nil
}

// DeleteCartID removes the binding. Deleting an absent binding is a no-op.
func (s *Store) DeleteCartID(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return errors.Wrap(err, "session delete")
	}
	return nil
}
