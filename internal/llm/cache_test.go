package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, next Caller) (*Cached, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &Cached{Next: next, Client: client, TTL: time.Minute}, mr
}

func TestCachedServesRepeatPromptsFromCache(t *testing.T) {
	calls := 0
	next := CallerFunc(func(_ context.Context, _ string) (string, error) {
		calls++
		return "respuesta generada", nil
	})
	c, _ := newTestCache(t, next)

	out, err := c.Invoke(context.Background(), "mismo prompt")
	require.NoError(t, err)
	assert.Equal(t, "respuesta generada", out)

	out, err = c.Invoke(context.Background(), "mismo prompt")
	require.NoError(t, err)
	assert.Equal(t, "respuesta generada", out)
	assert.Equal(t, 1, calls)

	_, err = c.Invoke(context.Background(), "otro prompt")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachedExpiresWithTTL(t *testing.T) {
	calls := 0
	next := CallerFunc(func(_ context.Context, _ string) (string, error) {
		calls++
		return "r", nil
	})
	c, mr := newTestCache(t, next)

	_, err := c.Invoke(context.Background(), "p")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = c.Invoke(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachedDoesNotCacheFailures(t *testing.T) {
	calls := 0
	next := CallerFunc(func(_ context.Context, _ string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("model down")
		}
		return "ok", nil
	})
	c, _ := newTestCache(t, next)

	_, err := c.Invoke(context.Background(), "p")
	require.Error(t, err)

	out, err := c.Invoke(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 2, calls)
}

func TestCacheKeyIsStable(t *testing.T) {
	assert.Equal(t, cacheKey("hola"), cacheKey("hola"))
	assert.NotEqual(t, cacheKey("hola"), cacheKey("hola "))
}
