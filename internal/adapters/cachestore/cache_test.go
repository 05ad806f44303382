package cachestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"carecircle/internal/ports/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type facility struct {
	Name string  `json:"name"`
	Km   float64 `json:"km"`
}

func newMiniRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisFromClient(client), mr
}

func TestRedis_GetSet(t *testing.T) {
	c, mr := newMiniRedis(t)
	ctx := context.Background()

	var got facility
	assert.ErrorIs(t, c.Get(ctx, "k", &got), cache.ErrMiss)

	require.NoError(t, c.Set(ctx, "k", facility{Name: "Soweto Community Clinic", Km: 2.3}, time.Minute))
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "Soweto Community Clinic", got.Name)
	assert.True(t, mr.Exists("carecircle:k"))

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, c.Get(ctx, "k", &got), cache.ErrMiss)
}

func TestRedis_SetNX(t *testing.T) {
	c, mr := newMiniRedis(t)
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "reminder:1", true, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "reminder:1", true, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(time.Hour)
	ok, err = c.SetNX(ctx, "reminder:1", true, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_TTL(t *testing.T) {
	m := NewMemory()
	now := time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := m.SetNX(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = m.SetNX(ctx, "k", 2, time.Minute)
	assert.False(t, ok)

	var n int
	require.NoError(t, m.Get(ctx, "k", &n))
	assert.Equal(t, 1, n)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, m.Get(ctx, "k", &n), cache.ErrMiss)

	require.NoError(t, m.Set(ctx, "forever", "x", 0))
	now = now.Add(24 * time.Hour)
	var s string
	require.NoError(t, m.Get(ctx, "forever", &s))
	require.NoError(t, m.Delete(ctx, "forever"))
	assert.ErrorIs(t, m.Get(ctx, "forever", &s), cache.ErrMiss)
}

func TestGetOrSet(t *testing.T) {
	stores := map[string]cache.Cache{"memory": NewMemory()}
	r, _ := newMiniRedis(t)
	stores["redis"] = r

	for name, c := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			calls := 0
			load := func() ([]facility, error) {
				calls++
				return []facility{{Name: "Diepsloot Clinic", Km: 8.1}}, nil
			}

			for i := 0; i < 3; i++ {
				got, err := cache.GetOrSet(ctx, c, "facilities", time.Minute, load)
				require.NoError(t, err)
				require.Len(t, got, 1)
			}
			assert.Equal(t, 1, calls)

			boom := errors.New("boom")
			_, err := cache.GetOrSet(ctx, c, "other", time.Minute, func() (int, error) { return 0, boom })
			assert.ErrorIs(t, err, boom)
		})
	}

	// sin cache siempre llama
	calls := 0
	for i := 0; i < 2; i++ {
		_, _ = cache.GetOrSet(context.Background(), nil, "x", time.Minute, func() (int, error) { calls++; return 1, nil })
	}
	assert.Equal(t, 2, calls)
}
