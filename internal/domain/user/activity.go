package user

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityRecord holds one user's counters for one UTC calendar day.
type ActivityRecord struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserEmail        string         `gorm:"column:user_email;not null;uniqueIndex:idx_user_activity_day,priority:1" json:"user_email"`
	ActivityDate     datatypes.Date `gorm:"column:activity_date;not null;uniqueIndex:idx_user_activity_day,priority:2" json:"activity_date"`
	MinutesStudied   int            `gorm:"column:minutes_studied;not null;default:0" json:"minutes_studied"`
	LessonsCompleted int            `gorm:"column:lessons_completed;not null;default:0" json:"lessons_completed"`
	DailyGoalMinutes int            `gorm:"column:daily_goal_minutes;not null;default:30" json:"daily_goal_minutes"`
}

func (ActivityRecord) TableName() string { return "user_activity" }

func (a *ActivityRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Stats is the GET /stats response.
type Stats struct {
	Streak              int `json:"streak"`
	TodayMinutes        int `json:"today_minutes"`
	TodayLessons        int `json:"today_lessons"`
	DailyGoalMinutes    int `json:"daily_goal_minutes"`
	GoalProgressPercent int `json:"goal_progress_percent"`
}
