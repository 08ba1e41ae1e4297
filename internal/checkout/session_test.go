package checkout

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"eventhive/internal/payments"
	"eventhive/pkg/cache"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is a minimal in-memory cache.Service for session tests
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (m *memoryCache) Exists(ctx context.Context, key string) bool {
	_, ok := m.data[key]
	return ok
}

func (m *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	return m.Get(ctx, key, dest)
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }

func TestSessionStore_RoundTrip(t *testing.T) {
	store := NewSessionStore(newMemoryCache(), 30*time.Minute)
	ctx := context.Background()

	session := &Session{
		OrderID:  "order_abc123",
		EventID:  uuid.New(),
		UserID:   uuid.New(),
		Attendee: Attendee{Name: "Asha Rao", Email: "asha@example.com"},
		Items:    []CartItem{{TierID: uuid.New(), Quantity: 2}},
		Total:    decimal.NewFromInt(998),
		Currency: "INR",
	}

	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "order_abc123")
	require.NoError(t, err)
	assert.Equal(t, session.OrderID, got.OrderID)
	assert.Equal(t, session.UserID, got.UserID)
	assert.True(t, got.Total.Equal(session.Total))
	assert.Len(t, got.Items, 1)
}

func TestSessionStore_UnknownOrderIsStale(t *testing.T) {
	store := NewSessionStore(newMemoryCache(), 30*time.Minute)

	_, err := store.Get(context.Background(), "order_never_opened")
	assert.ErrorIs(t, err, payments.ErrStaleOrder)
}

func TestSessionStore_DeletedOrderIsStale(t *testing.T) {
	store := NewSessionStore(newMemoryCache(), 30*time.Minute)
	ctx := context.Background()

	session := &Session{OrderID: "order_abc123"}
	require.NoError(t, store.Save(ctx, session))
	require.NoError(t, store.Delete(ctx, "order_abc123"))

	_, err := store.Get(ctx, "order_abc123")
	assert.ErrorIs(t, err, payments.ErrStaleOrder)
}
