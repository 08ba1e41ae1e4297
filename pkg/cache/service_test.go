package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestService_GetSet(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	svc := NewService(client)
	ctx := context.Background()

	value := payload{Name: "general", Count: 3}
	data, err := json.Marshal(value)
	require.NoError(t, err)

	redisMock.ExpectSet("test:key", data, time.Minute).SetVal("OK")
	require.NoError(t, svc.Set(ctx, "test:key", value, time.Minute))

	redisMock.ExpectGet("test:key").SetVal(string(data))
	var got payload
	require.NoError(t, svc.Get(ctx, "test:key", &got))
	assert.Equal(t, value, got)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_GetMiss(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	svc := NewService(client)

	redisMock.ExpectGet("missing:key").RedisNil()

	var got payload
	err := svc.Get(context.Background(), "missing:key", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_GetOrSet(t *testing.T) {
	t.Run("miss invokes the fetcher and caches the result", func(t *testing.T) {
		client, redisMock := redismock.NewClientMock()
		svc := NewService(client)

		value := payload{Name: "vip", Count: 1}
		data, err := json.Marshal(value)
		require.NoError(t, err)

		redisMock.ExpectGet("aside:key").RedisNil()
		redisMock.ExpectSet("aside:key", data, time.Minute).SetVal("OK")

		fetched := false
		var got payload
		err = svc.GetOrSet(context.Background(), "aside:key", time.Minute, func() (interface{}, error) {
			fetched = true
			return value, nil
		}, &got)

		require.NoError(t, err)
		assert.True(t, fetched)
		assert.Equal(t, value, got)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("hit skips the fetcher", func(t *testing.T) {
		client, redisMock := redismock.NewClientMock()
		svc := NewService(client)

		value := payload{Name: "vip", Count: 1}
		data, err := json.Marshal(value)
		require.NoError(t, err)

		redisMock.ExpectGet("aside:key").SetVal(string(data))

		var got payload
		err = svc.GetOrSet(context.Background(), "aside:key", time.Minute, func() (interface{}, error) {
			t.Fatal("fetcher must not run on a cache hit")
			return nil, nil
		}, &got)

		require.NoError(t, err)
		assert.Equal(t, value, got)
	})
}

func TestService_Delete(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	svc := NewService(client)

	redisMock.ExpectDel("stale:key").SetVal(1)
	assert.NoError(t, svc.Delete(context.Background(), "stale:key"))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
