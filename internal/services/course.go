package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/infinitetutor-backend/internal/data/repos"
	"github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/apierr"
	"github.com/yungbote/infinitetutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

type SaveCourseInput struct {
	CourseID        string           `json:"course_id" validate:"required"`
	Title           string           `json:"title" validate:"required"`
	Topic           string           `json:"topic"`
	Level           string           `json:"level" validate:"omitempty,course_level"`
	ProgressPercent int              `json:"progress_percent"`
	Chapters        []domain.Chapter `json:"chapters"`
}

type CourseService interface {
	List(ctx context.Context) ([]*domain.Course, error)
	Get(ctx context.Context, courseID string) (*domain.Course, error)
	Save(ctx context.Context, in SaveCourseInput) error
}

type courseService struct {
	log     *logger.Logger
	courses repos.CourseRepo
	now     func() time.Time
}

func NewCourseService(log *logger.Logger, courses repos.CourseRepo) CourseService {
	return &courseService{
		log:     log.With("service", "CourseService"),
		courses: courses,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *courseService) List(ctx context.Context) ([]*domain.Course, error) {
	email, err := requireEmail(ctx)
	if err != nil {
		return nil, err
	}
	return s.courses.ListByUser(dbctx.New(ctx), email)
}

func (s *courseService) Get(ctx context.Context, courseID string) (*domain.Course, error) {
	email, err := requireEmail(ctx)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetByUserAndCourseID(dbctx.New(ctx), email, strings.TrimSpace(courseID))
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apierr.NotFound("course_not_found", ErrCourseNotFound)
	}
	return course, nil
}

func (s *courseService) Save(ctx context.Context, in SaveCourseInput) error {
	email, err := requireEmail(ctx)
	if err != nil {
		return err
	}
	in.CourseID = strings.TrimSpace(in.CourseID)
	in.Title = strings.TrimSpace(in.Title)
	in.Level = strings.TrimSpace(in.Level)
	if err := validateInput(in); err != nil {
		return err
	}
	ctxutil.NoteCourse(ctx, in.CourseID)

	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		topic = in.Title
	}
	level := in.Level
	if level == "" {
		level = defaultLevel
	}
	chapters := in.Chapters
	if chapters == nil {
		chapters = []domain.Chapter{}
	}
	chaptersJSON, err := json.Marshal(chapters)
	if err != nil {
		return err
	}

	course := &domain.Course{
		UserEmail:       email,
		CourseID:        in.CourseID,
		Title:           in.Title,
		Topic:           topic,
		Level:           level,
		ProgressPercent: clampPercent(in.ProgressPercent),
		ChaptersJSON:    datatypes.JSON(chaptersJSON),
		LastAccessed:    s.now(),
	}
	if err := s.courses.Upsert(dbctx.New(ctx), course); err != nil {
		s.log.Error("course save failed", "user_email", email, "course_id", in.CourseID, "error", err)
		return err
	}
	return nil
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
