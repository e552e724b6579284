package learning

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

type CourseRepo interface {
	// Upsert writes the course keyed by (user_email, course_id); later writes
	// replace every mutable column.
	Upsert(dbc dbctx.Context, course *types.Course) error
	ListByUser(dbc dbctx.Context, userEmail string) ([]*types.Course, error)
	GetByUserAndCourseID(dbc dbctx.Context, userEmail, courseID string) (*types.Course, error)
	// ListRecentTopics returns up to limit non-empty topics, most recently accessed first.
	ListRecentTopics(dbc dbctx.Context, userEmail string, limit int) ([]string, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *courseRepo) Upsert(dbc dbctx.Context, course *types.Course) error {
	if course == nil {
		return nil
	}
	return r.tx(dbc).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_email"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title",
				"topic",
				"level",
				"progress_percent",
				"chapters_json",
				"last_accessed",
			}),
		}).
		Create(course).Error
}

func (r *courseRepo) ListByUser(dbc dbctx.Context, userEmail string) ([]*types.Course, error) {
	results := []*types.Course{}
	if strings.TrimSpace(userEmail) == "" {
		return results, nil
	}
	if err := r.tx(dbc).
		Where("user_email = ?", userEmail).
		Order("last_accessed DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) GetByUserAndCourseID(dbc dbctx.Context, userEmail, courseID string) (*types.Course, error) {
	if strings.TrimSpace(userEmail) == "" || strings.TrimSpace(courseID) == "" {
		return nil, nil
	}
	var rows []*types.Course
	if err := r.tx(dbc).
		Where("user_email = ? AND course_id = ?", userEmail, courseID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *courseRepo) ListRecentTopics(dbc dbctx.Context, userEmail string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	var topics []string
	if err := r.tx(dbc).
		Model(&types.Course{}).
		Where("user_email = ? AND topic <> ''", userEmail).
		Order("last_accessed DESC").
		Limit(limit).
		Pluck("topic", &topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}
