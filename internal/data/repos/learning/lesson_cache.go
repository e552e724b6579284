package learning

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

type LessonCacheRepo interface {
	Get(dbc dbctx.Context, courseID, lessonTitle string) (*types.CachedLesson, error)
	// Upsert keeps at most one row per (course_id, lesson_title).
	Upsert(dbc dbctx.Context, lesson *types.CachedLesson) error
}

type lessonCacheRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonCacheRepo(db *gorm.DB, baseLog *logger.Logger) LessonCacheRepo {
	return &lessonCacheRepo{db: db, log: baseLog.With("repo", "LessonCacheRepo")}
}

func (r *lessonCacheRepo) Get(dbc dbctx.Context, courseID, lessonTitle string) (*types.CachedLesson, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if courseID == "" || lessonTitle == "" {
		return nil, nil
	}
	var rows []*types.CachedLesson
	if err := t.WithContext(dbc.Ctx).
		Where("course_id = ? AND lesson_title = ?", courseID, lessonTitle).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *lessonCacheRepo) Upsert(dbc dbctx.Context, lesson *types.CachedLesson) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if lesson == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "course_id"}, {Name: "lesson_title"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"topic",
				"level",
				"content_markdown",
				"mermaid_code",
				"explanation",
				"created_at",
			}),
		}).
		Create(lesson).Error
}
