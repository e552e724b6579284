package ctxutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotesWithoutTraceDataAreIgnored(t *testing.T) {
	ctx := context.Background()
	NoteCourse(ctx, "c-1")
	NoteLessonCache(ctx, "hit")
	assert.Nil(t, GetTraceData(ctx))

	var td *TraceData
	assert.Empty(t, td.CourseID())
	assert.Empty(t, td.LessonCache())
}

func TestNotesLandOnRequestTrace(t *testing.T) {
	td := &TraceData{TraceID: "t", RequestID: "r"}
	ctx := WithTraceData(context.Background(), td)

	NoteCourse(ctx, "c-1")
	NoteCourse(ctx, "")
	NoteLessonCache(ctx, "waited")

	assert.Same(t, td, GetTraceData(ctx))
	assert.Equal(t, "c-1", td.CourseID())
	assert.Equal(t, "waited", td.LessonCache())
}
