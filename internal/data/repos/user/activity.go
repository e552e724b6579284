package user

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

type ActivityRepo interface {
	GetByDate(dbc dbctx.Context, userEmail string, day time.Time) (*types.ActivityRecord, error)
	// Increment adds the deltas to the user's row for day in a single
	// statement, creating the row with defaultGoal when absent.
	Increment(dbc dbctx.Context, userEmail string, day time.Time, minutes, lessons, defaultGoal int) error
	// ListActiveDates returns the days with minutes_studied > 0, newest first.
	ListActiveDates(dbc dbctx.Context, userEmail string) ([]time.Time, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *activityRepo) GetByDate(dbc dbctx.Context, userEmail string, day time.Time) (*types.ActivityRecord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.ActivityRecord
	if err := t.WithContext(dbc.Ctx).
		Where("user_email = ? AND activity_date = ?", userEmail, datatypes.Date(DateOf(day))).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *activityRepo) Increment(dbc dbctx.Context, userEmail string, day time.Time, minutes, lessons, defaultGoal int) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	row := &types.ActivityRecord{
		UserEmail:        userEmail,
		ActivityDate:     datatypes.Date(DateOf(day)),
		MinutesStudied:   minutes,
		LessonsCompleted: lessons,
		DailyGoalMinutes: defaultGoal,
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_email"}, {Name: "activity_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"minutes_studied":   gorm.Expr("user_activity.minutes_studied + excluded.minutes_studied"),
				"lessons_completed": gorm.Expr("user_activity.lessons_completed + excluded.lessons_completed"),
			}),
		}).
		Create(row).Error
}

func (r *activityRepo) ListActiveDates(dbc dbctx.Context, userEmail string) ([]time.Time, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.ActivityRecord
	if err := t.WithContext(dbc.Ctx).
		Select("activity_date").
		Where("user_email = ? AND minutes_studied > 0", userEmail).
		Order("activity_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		out = append(out, DateOf(time.Time(row.ActivityDate)))
	}
	return out, nil
}
