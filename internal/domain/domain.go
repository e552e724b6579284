// Package domain re-exports the persisted and transient types so callers can
// import a single package.
package domain

import (
	"github.com/yungbote/infinitetutor-backend/internal/domain/learning"
	"github.com/yungbote/infinitetutor-backend/internal/domain/user"
)

type (
	Course        = learning.Course
	Chapter       = learning.Chapter
	Syllabus      = learning.Syllabus
	Suggestion    = learning.Suggestion
	CachedLesson  = learning.CachedLesson
	LessonContent = learning.LessonContent
	Quiz          = learning.Quiz
	Question      = learning.Question
	Diagram       = learning.Diagram

	Note           = user.Note
	ActivityRecord = user.ActivityRecord
	Stats          = user.Stats
)

// Models lists every table managed by automigration.
func Models() []any {
	return []any{
		&Course{},
		&CachedLesson{},
		&Note{},
		&ActivityRecord{},
	}
}
