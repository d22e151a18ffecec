package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lgbarn/repertoire-go/internal/errors"
)

const viewKeyPrefix = "repertoire:view:"

// RedisViews keeps views in Redis with a sliding expiry.
type RedisViews struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisViews wraps an existing client. A ttl of 0 keeps views forever.
func NewRedisViews(client *redis.Client, ttl time.Duration) *RedisViews {
	return &RedisViews{client: client, ttl: ttl}
}

// DialRedis connects to addr and pings it.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctxPing).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to Redis at %s: %w", addr, err)
	}
	return client, nil
}

func viewKey(repertoireID string) string {
	return viewKeyPrefix + repertoireID
}

// View returns the viewed node of a repertoire and refreshes its expiry.
func (r *RedisViews) View(ctx context.Context, repertoireID string) (string, bool, error) {
	var (
		v   string
		err error
	)
	if r.ttl > 0 {
		v, err = r.client.GetEx(ctx, viewKey(repertoireID), r.ttl).Result()
	} else {
		v, err = r.client.Get(ctx, viewKey(repertoireID)).Result()
	}
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "reading view of %q", repertoireID)
	}
	return v, true, nil
}

// SetView stores the viewed node of a repertoire.
func (r *RedisViews) SetView(ctx context.Context, repertoireID, nodeID string) error {
	if err := r.client.Set(ctx, viewKey(repertoireID), nodeID, r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "storing view of %q", repertoireID)
	}
	return nil
}

// ClearView forgets the viewed node of a repertoire.
func (r *RedisViews) ClearView(ctx context.Context, repertoireID string) error {
	if err := r.client.Del(ctx, viewKey(repertoireID)).Err(); err != nil {
		return errors.Wrapf(err, "clearing view of %q", repertoireID)
	}
	return nil
}
