package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/infinitetutor-backend/internal/data/repos"
	"github.com/yungbote/infinitetutor-backend/internal/data/repos/testutil"
	"github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/inflight"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

// replicaSet is two lesson services that share a database and a redis
// marker but nothing in-process, like two API replicas.
type replicaSet struct {
	a, b    LessonService
	lessons repos.LessonCacheRepo
	marker  *inflight.Marker
	redis   *miniredis.Miniredis
}

func newReplicaSet(t *testing.T, client *fakeLLM) replicaSet {
	t.Helper()
	set := repos.NewSet(testutil.DB(t), logger.NewNop())
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	marker := inflight.NewMarker(logger.NewNop(), rdb, "lesson-gen:", time.Minute)

	replica := func() LessonService {
		return NewLessonService(logger.NewNop(), LessonServiceDeps{
			Client:  client,
			Lessons: set.Lessons,
			Flight:  inflight.NewGroup(10 * time.Second),
			Marker:  marker,
		})
	}
	return replicaSet{a: replica(), b: replica(), lessons: set.Lessons, marker: marker, redis: mr}
}

func lessonKey(req LessonRequest) string {
	return req.CourseID + "\x00" + req.LessonTitle
}

func TestLessonReplicasShareOneGeneration(t *testing.T) {
	fake := &fakeLLM{json: lessonJSON, gate: make(chan struct{})}
	rs := newReplicaSet(t, fake)
	req := LessonRequest{CourseID: "c1", LessonTitle: "Goroutines", Topic: "Go"}

	var wg sync.WaitGroup
	results := make([]*domain.LessonContent, 2)
	errs := make([]error, 2)
	for i, svc := range []LessonService{rs.a, rs.b} {
		wg.Add(1)
		go func(i int, svc LessonService) {
			defer wg.Done()
			results[i], errs[i] = svc.Generate(context.Background(), req)
		}(i, svc)
	}
	time.Sleep(100 * time.Millisecond)
	close(fake.gate)
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Contains(t, results[i].ContentMarkdown, "Lightweight threads")
		assert.Equal(t, "Goroutines", results[i].LessonTitle)
	}
	assert.Equal(t, 1, fake.Calls())
	assert.Empty(t, rs.redis.Keys(), "marker must be released after the fill")
}

func TestLessonReplicaWaitingOnHolderGetsCachedRow(t *testing.T) {
	fake := &fakeLLM{json: lessonJSON}
	rs := newReplicaSet(t, fake)
	req := LessonRequest{CourseID: "c2", LessonTitle: "Channels", Topic: "Go"}

	// Another replica is mid-generation.
	release, ok, err := rs.marker.Acquire(context.Background(), lessonKey(req))
	require.NoError(t, err)
	require.True(t, ok)

	td := &ctxutil.TraceData{}
	done := make(chan struct{})
	var out *domain.LessonContent
	var genErr error
	go func() {
		defer close(done)
		out, genErr = rs.a.Generate(ctxutil.WithTraceData(context.Background(), td), req)
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, rs.lessons.Upsert(dbctx.New(context.Background()), &domain.CachedLesson{
		CourseID:        req.CourseID,
		LessonTitle:     req.LessonTitle,
		ContentMarkdown: "# Channels\n\nTyped pipes between goroutines.",
		Explanation:     "Channels connect goroutines.",
		CreatedAt:       time.Now().UTC(),
	}))
	release()
	<-done

	require.NoError(t, genErr)
	assert.True(t, out.Cached)
	assert.Equal(t, "# Channels\n\nTyped pipes between goroutines.", out.ContentMarkdown)
	assert.Contains(t, []string{"waited", "hit"}, td.LessonCache())
	assert.Zero(t, fake.Calls())
}

func TestLessonReplicaGeneratesWhenHolderFails(t *testing.T) {
	fake := &fakeLLM{json: lessonJSON}
	rs := newReplicaSet(t, fake)
	req := LessonRequest{CourseID: "c3", LessonTitle: "Select", Topic: "Go"}

	release, ok, err := rs.marker.Acquire(context.Background(), lessonKey(req))
	require.NoError(t, err)
	require.True(t, ok)

	done := make(chan struct{})
	var out *domain.LessonContent
	var genErr error
	go func() {
		defer close(done)
		out, genErr = rs.b.Generate(context.Background(), req)
	}()

	// The holder gives up without writing a row.
	time.Sleep(50 * time.Millisecond)
	release()
	<-done

	require.NoError(t, genErr)
	assert.False(t, out.Cached)
	assert.Equal(t, 1, fake.Calls())

	row, err := rs.lessons.Get(dbctx.New(context.Background()), req.CourseID, req.LessonTitle)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Empty(t, rs.redis.Keys())
}
