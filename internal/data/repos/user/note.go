package user

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

type NoteRepo interface {
	Get(dbc dbctx.Context, userEmail, courseID, lessonID string) (*types.Note, error)
	// Upsert overwrites the content for (user_email, course_id, lesson_id).
	Upsert(dbc dbctx.Context, note *types.Note) error
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return &noteRepo{db: db, log: baseLog.With("repo", "NoteRepo")}
}

func (r *noteRepo) Get(dbc dbctx.Context, userEmail, courseID, lessonID string) (*types.Note, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Note
	if err := t.WithContext(dbc.Ctx).
		Where("user_email = ? AND course_id = ? AND lesson_id = ?", userEmail, courseID, lessonID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *noteRepo) Upsert(dbc dbctx.Context, note *types.Note) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if note == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_email"}, {Name: "course_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
		}).
		Create(note).Error
}
