package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/drunkard/pkg/adapters/redis"
	"github.com/aretw0/drunkard/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	ports.RunResultCacheContract(t, redis.NewFromClient(client))
}

func TestRedisCache_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	cache := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "sweep", []byte("{}")))
	assert.True(t, mr.Exists("drunkard:result:sweep"))

	mr.FastForward(2 * time.Second)

	_, ok, err := cache.Get(ctx, "sweep")
	require.NoError(t, err)
	assert.False(t, ok, "result should have expired")
}

func TestRedisCache_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache := redis.New(mr.Addr(), "", 0, redis.WithPrefix("test:"))
	defer cache.Close()

	require.NoError(t, cache.Ping(context.Background()))
	require.NoError(t, cache.Set(context.Background(), "k", []byte("v")))
	assert.True(t, mr.Exists("test:k"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cache := redis.New(addr, "", 0)
	defer cache.Close()

	_, _, err = cache.Get(context.Background(), "k")
	assert.ErrorContains(t, err, "failed to get from redis")
}
