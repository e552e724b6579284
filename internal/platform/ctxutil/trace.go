package ctxutil

import (
	"context"
	"sync"
)

type traceDataKey struct{}

// TraceData identifies one HTTP request and collects what the handlers
// learned about it, so the request log and metrics can report the course
// touched and how a lesson was served.
type TraceData struct {
	TraceID   string
	RequestID string

	mu          sync.Mutex
	courseID    string
	lessonCache string
}

func (td *TraceData) SetCourseID(id string) {
	if td == nil || id == "" {
		return
	}
	td.mu.Lock()
	td.courseID = id
	td.mu.Unlock()
}

func (td *TraceData) CourseID() string {
	if td == nil {
		return ""
	}
	td.mu.Lock()
	defer td.mu.Unlock()
	return td.courseID
}

// SetLessonCache records the lesson cache outcome: hit, miss, shared, waited
// or uncached.
func (td *TraceData) SetLessonCache(outcome string) {
	if td == nil {
		return
	}
	td.mu.Lock()
	td.lessonCache = outcome
	td.mu.Unlock()
}

func (td *TraceData) LessonCache() string {
	if td == nil {
		return ""
	}
	td.mu.Lock()
	defer td.mu.Unlock()
	return td.lessonCache
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(Default(ctx), traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}

// NoteCourse tags the request in ctx with a course id. A ctx without trace
// data is left alone.
func NoteCourse(ctx context.Context, courseID string) {
	GetTraceData(ctx).SetCourseID(courseID)
}

func NoteLessonCache(ctx context.Context, outcome string) {
	GetTraceData(ctx).SetLessonCache(outcome)
}
