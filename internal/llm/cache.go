package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cached is a read-through redis cache in front of another Caller. Identical
// prompts within the TTL window are served from cache, which matters when the
// workflow reroutes back through a phase with unchanged inputs.
type Cached struct {
	Next   Caller
	Client *redis.Client
	TTL    time.Duration
}

func NewCached(next Caller, redisURL string, ttl time.Duration) (*Cached, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Cached{Next: next, Client: redis.NewClient(opt), TTL: ttl}, nil
}

func (c *Cached) Invoke(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(prompt)

	if cached, err := c.Client.Get(ctx, key).Result(); err == nil {
		return cached, nil
	} else if err != redis.Nil {
		log.Println("llm cache read error:", err)
	}

	out, err := c.Next.Invoke(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := c.Client.Set(ctx, key, out, c.TTL).Err(); err != nil {
		log.Println("llm cache write error:", err)
	}
	return out, nil
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "llm:" + hex.EncodeToString(sum[:])
}
