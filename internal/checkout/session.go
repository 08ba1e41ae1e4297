package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhive/internal/payments"
	"eventhive/pkg/cache"
)

// SessionStore persists checkout sessions in Redis for the lifetime of the
// gateway order handle.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, orderID string) (*Session, error)
	Delete(ctx context.Context, orderID string) error
}

type sessionStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewSessionStore(cacheService cache.Service, ttl time.Duration) SessionStore {
	return &sessionStore{cache: cacheService, ttl: ttl}
}

func sessionKey(orderID string) string {
	return fmt.Sprintf("checkout:session:%s", orderID)
}

func (s *sessionStore) Save(ctx context.Context, session *Session) error {
	if err := s.cache.Set(ctx, sessionKey(session.OrderID), session, s.ttl); err != nil {
		return fmt.Errorf("failed to save checkout session: %w", err)
	}
	return nil
}

// Get returns payments.ErrStaleOrder for unknown or expired order ids so
// callers reject the callback instead of settling against a vanished cart.
func (s *sessionStore) Get(ctx context.Context, orderID string) (*Session, error) {
	var session Session
	err := s.cache.Get(ctx, sessionKey(orderID), &session)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, payments.ErrStaleOrder
		}
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}
	return &session, nil
}

func (s *sessionStore) Delete(ctx context.Context, orderID string) error {
	return s.cache.Delete(ctx, sessionKey(orderID))
}
