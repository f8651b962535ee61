package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/drilldown/pkg/adapters/redis"
	"github.com/aretw0/drilldown/pkg/domain"
	"github.com/aretw0/drilldown/pkg/ports"
)

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client)
	ports.RunSessionStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Create store with 1s TTL
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	key := "session-ttl"

	session := domain.NewSession()
	session.Descend("root")
	session.Save("foo", "bar")

	// 1. Save
	err = store.Save(ctx, key, session)
	assert.NoError(t, err)

	// 2. Verify List (immediately)
	sessions, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, sessions, key)

	// 3. Fast forward time in miniredis (for key expiration)
	mr.FastForward(2 * time.Second)

	// 4. Verify Load (should fail)
	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// 5. Verify List (lazily cleaned up). The index prune relies on
	// time.Now(), so wait past the TTL in wall-clock time as well.
	time.Sleep(1200 * time.Millisecond)

	sessions, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_RoundTripPreservesStack(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithPrefix("test:session:"))
	ctx := context.Background()

	session := domain.NewSession()
	session.Descend("root")
	session.Save("choice", "music")
	session.Descend("music")
	session.EnableDebug(map[string]any{"seed": "x"})
	session.KeyboardID = 12
	session.KeyboardStale = true

	require.NoError(t, store.Save(ctx, "k1", session))

	loaded, err := store.Load(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []domain.State{"root", "music"}, loaded.Breadcrumb)
	assert.Equal(t, "music", loaded.Frames[0]["choice"])
	assert.True(t, loaded.DebugMode)
	assert.Equal(t, 12, loaded.KeyboardID)
	assert.True(t, loaded.KeyboardStale)
	assert.Equal(t, len(loaded.Breadcrumb), len(loaded.Frames))
}
