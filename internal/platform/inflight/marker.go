package inflight

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

// releaseScript deletes the marker only if we still own it.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Marker struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
	poll   time.Duration
}

// NewMarker returns a cross-process marker. A nil rdb makes every Acquire
// succeed immediately, leaving only the in-process Group as protection.
func NewMarker(log *logger.Logger, rdb goredis.UniversalClient, prefix string, ttl time.Duration) *Marker {
	if log == nil {
		log = logger.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Marker{
		log:    log.With("component", "InflightMarker"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
		poll:   500 * time.Millisecond,
	}
}

func (m *Marker) Enabled() bool { return m != nil && m.rdb != nil }

// Acquire sets the marker for key. When another holder owns it, acquired is
// false and release is a no-op.
func (m *Marker) Acquire(ctx context.Context, key string) (release func(), acquired bool, err error) {
	noop := func() {}
	if !m.Enabled() {
		return noop, true, nil
	}
	k := m.prefix + key
	token := uuid.NewString()
	ok, err := m.rdb.SetNX(ctx, k, token, m.ttl).Result()
	if err != nil {
		return noop, false, err
	}
	if !ok {
		return noop, false, nil
	}
	return func() {
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, m.rdb, []string{k}, token).Err(); err != nil && !errors.Is(err, goredis.Nil) {
			m.log.Warn("inflight marker release failed", "key", k, "error", err)
		}
	}, true, nil
}

// Wait polls check until it reports done, the marker disappears, or the
// marker TTL elapses. found is false when the holder went away without
// producing a result.
func (m *Marker) Wait(ctx context.Context, key string, check func(ctx context.Context) (bool, error)) (found bool, err error) {
	deadline := time.Now().Add(m.ttl)
	k := m.prefix + key
	for {
		done, err := check(ctx)
		if err != nil || done {
			return done, err
		}
		if !m.Enabled() {
			return false, nil
		}
		n, err := m.rdb.Exists(ctx, k).Result()
		if err != nil {
			return false, err
		}
		if n == 0 {
			// Holder finished or died; one last look before giving up.
			return check(ctx)
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		timer := time.NewTimer(m.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}
}
