package services

import (
	"context"
	"math"
	"time"

	"github.com/yungbote/infinitetutor-backend/internal/data/repos"
	"github.com/yungbote/infinitetutor-backend/internal/data/repos/user"
	"github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/observability"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

const DefaultDailyGoalMinutes = 30

type LogActivityInput struct {
	Minutes int `json:"minutes" validate:"gte=0"`
	Lessons int `json:"lessons" validate:"gte=0"`
}

type StatsService interface {
	Get(ctx context.Context) (*domain.Stats, error)
	Log(ctx context.Context, in LogActivityInput) error
}

type statsService struct {
	log         *logger.Logger
	activity    repos.ActivityRepo
	defaultGoal int
	now         func() time.Time
}

func NewStatsService(log *logger.Logger, activity repos.ActivityRepo, defaultGoal int) StatsService {
	if defaultGoal <= 0 {
		defaultGoal = DefaultDailyGoalMinutes
	}
	return &statsService{
		log:         log.With("service", "StatsService"),
		activity:    activity,
		defaultGoal: defaultGoal,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *statsService) today() time.Time { return user.DateOf(s.now()) }

func (s *statsService) Get(ctx context.Context) (*domain.Stats, error) {
	email, err := requireEmail(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	today := s.today()

	rec, err := s.activity.GetByDate(dbc, email, today)
	if err != nil {
		return nil, err
	}
	out := &domain.Stats{DailyGoalMinutes: s.defaultGoal}
	if rec != nil {
		out.TodayMinutes = rec.MinutesStudied
		out.TodayLessons = rec.LessonsCompleted
		if rec.DailyGoalMinutes > 0 {
			out.DailyGoalMinutes = rec.DailyGoalMinutes
		}
	}
	out.GoalProgressPercent = GoalProgressPercent(out.TodayMinutes, out.DailyGoalMinutes)

	dates, err := s.activity.ListActiveDates(dbc, email)
	if err != nil {
		return nil, err
	}
	out.Streak = ComputeStreak(dates, today)
	return out, nil
}

func (s *statsService) Log(ctx context.Context, in LogActivityInput) error {
	email, err := requireEmail(ctx)
	if err != nil {
		return err
	}
	if err := validateInput(in); err != nil {
		return err
	}
	if err := s.activity.Increment(dbctx.New(ctx), email, s.today(), in.Minutes, in.Lessons, s.defaultGoal); err != nil {
		s.log.Error("activity log failed", "user_email", email, "error", err)
		return err
	}
	observability.Current().ObserveActivity(in.Minutes, in.Lessons)
	return nil
}

// GoalProgressPercent is min(100, round(100*minutes/goal)), or 0 without a goal.
func GoalProgressPercent(minutes, goal int) int {
	if goal <= 0 {
		return 0
	}
	pct := int(math.Round(float64(minutes) * 100 / float64(goal)))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// ComputeStreak counts consecutive study days ending today. dates must be
// UTC calendar days with activity, newest first. A missing today does not
// break the streak (the day is not over yet); any other gap does. The
// one-day slack is only granted at the start of the run, never after a
// counted day, and a future-dated row is skipped rather than ending the run.
func ComputeStreak(dates []time.Time, today time.Time) int {
	expected := user.DateOf(today)
	streak := 0
	for _, d := range dates {
		d = user.DateOf(d)
		switch {
		case d.After(expected) && streak == 0:
			// Future-dated rows are ignored.
			continue
		case d.Equal(expected):
		case streak == 0 && d.Equal(expected.AddDate(0, 0, -1)):
			// Nothing logged today yet: count from yesterday.
		default:
			return streak
		}
		streak++
		expected = d.AddDate(0, 0, -1)
	}
	return streak
}
