package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Sliding window over a sorted set keyed by author. The prune-count-add
// sequence runs as one script so concurrent instances cannot oversubscribe
// a window; the add is skipped when the quota is already used, matching
// the in-process limiter's "rejected attempts are free" behavior.
var allowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then
  return 0
end
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

type Redis struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewRedis(client *redis.Client, max int, window time.Duration) *Redis {
	return &Redis{client: client, max: max, window: window}
}

func (r *Redis) Allow(ctx context.Context, authorID string) (bool, error) {
	now := time.Now()

	res, err := allowScript.Run(ctx, r.client,
		[]string{"review:window:" + authorID},
		strconv.FormatInt(now.Add(-r.window).UnixNano(), 10),
		r.max,
		strconv.FormatInt(now.UnixNano(), 10),
		uuid.NewString(),
		r.window.Milliseconds(),
	).Int()
	if err != nil {
		return false, errors.Wrap(err, "run allow script")
	}

	return res == 1, nil
}
