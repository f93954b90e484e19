package cache_test

import (
	"context"
	"testing"

	"magnetdata-service/internal/infrastructure/cache"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c := cache.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "holidays:CL")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "holidays:CL", `["2023-01-01","2023-01-02"]`))
	v, ok, err := c.Get(ctx, "holidays:CL")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `["2023-01-01","2023-01-02"]`, v)

	require.NoError(t, c.Reset(ctx))
	_, ok, err = c.Get(ctx, "holidays:CL")
	require.NoError(t, err)
	require.False(t, ok)
}
