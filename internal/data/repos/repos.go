package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/infinitetutor-backend/internal/data/repos/learning"
	"github.com/yungbote/infinitetutor-backend/internal/data/repos/user"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

type CourseRepo = learning.CourseRepo
type LessonCacheRepo = learning.LessonCacheRepo

type NoteRepo = user.NoteRepo
type ActivityRepo = user.ActivityRepo

// Set groups every repository the services depend on.
type Set struct {
	Courses  CourseRepo
	Lessons  LessonCacheRepo
	Notes    NoteRepo
	Activity ActivityRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Courses:  learning.NewCourseRepo(db, log),
		Lessons:  learning.NewLessonCacheRepo(db, log),
		Notes:    user.NewNoteRepo(db, log),
		Activity: user.NewActivityRepo(db, log),
	}
}
