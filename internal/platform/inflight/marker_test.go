package inflight

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisMarker(t *testing.T, ttl time.Duration) (*Marker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	m := NewMarker(nil, rdb, "lesson:", ttl)
	m.poll = 10 * time.Millisecond
	return m, mr
}

func TestMarkerAcquireIsExclusiveUntilReleased(t *testing.T) {
	m, mr := newRedisMarker(t, time.Minute)
	ctx := context.Background()
	require.True(t, m.Enabled())

	release, ok, err := m.Acquire(ctx, "c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("lesson:c1"))
	assert.Equal(t, time.Minute, mr.TTL("lesson:c1"))

	_, ok, err = m.Acquire(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	assert.False(t, mr.Exists("lesson:c1"))

	release2, ok, err := m.Acquire(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, ok)
	release2()
}

func TestMarkerReleaseLeavesAnotherHoldersKey(t *testing.T) {
	m, mr := newRedisMarker(t, time.Minute)

	release, ok, err := m.Acquire(context.Background(), "c1")
	require.NoError(t, err)
	require.True(t, ok)

	// Our marker expired and another replica took the key.
	require.NoError(t, mr.Set("lesson:c1", "other-replica"))
	release()

	got, err := mr.Get("lesson:c1")
	require.NoError(t, err)
	assert.Equal(t, "other-replica", got)
}

func TestMarkerWaitReturnsOnceCheckSucceeds(t *testing.T) {
	m, _ := newRedisMarker(t, time.Minute)
	release, ok, err := m.Acquire(context.Background(), "c1")
	require.NoError(t, err)
	require.True(t, ok)
	defer release()

	var checks int32
	found, err := m.Wait(context.Background(), "c1", func(context.Context) (bool, error) {
		return atomic.AddInt32(&checks, 1) >= 3, nil
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int32(3), atomic.LoadInt32(&checks))
}

func TestMarkerWaitEndsWhenHolderLeavesWithoutResult(t *testing.T) {
	m, _ := newRedisMarker(t, time.Minute)
	release, ok, err := m.Acquire(context.Background(), "c1")
	require.NoError(t, err)
	require.True(t, ok)

	go func() {
		time.Sleep(50 * time.Millisecond)
		release()
	}()

	var checks int32
	found, err := m.Wait(context.Background(), "c1", func(context.Context) (bool, error) {
		atomic.AddInt32(&checks, 1)
		return false, nil
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&checks), int32(2))
}

func TestMarkerWaitGivesUpAfterTTL(t *testing.T) {
	m, mr := newRedisMarker(t, 100*time.Millisecond)
	// miniredis only expires keys on FastForward, so the key outlives the wait.
	require.NoError(t, mr.Set("lesson:c1", "stuck-holder"))

	start := time.Now()
	found, err := m.Wait(context.Background(), "c1", func(context.Context) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.False(t, found)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestMarkerWaitStopsOnCallerCancel(t *testing.T) {
	m, mr := newRedisMarker(t, time.Minute)
	require.NoError(t, mr.Set("lesson:c1", "holder"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	found, err := m.Wait(ctx, "c1", func(context.Context) (bool, error) { return false, nil })
	assert.False(t, found)
	assert.Error(t, err)
}
