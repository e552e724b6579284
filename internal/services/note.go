package services

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/infinitetutor-backend/internal/data/repos"
	"github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

type NoteService interface {
	// Get returns "" when no note was saved yet.
	Get(ctx context.Context, courseID, lessonID string) (string, error)
	Save(ctx context.Context, courseID, lessonID, content string) error
}

type noteService struct {
	log   *logger.Logger
	notes repos.NoteRepo
}

func NewNoteService(log *logger.Logger, notes repos.NoteRepo) NoteService {
	return &noteService{
		log:   log.With("service", "NoteService"),
		notes: notes,
	}
}

func noteKey(courseID, lessonID string) (string, string, error) {
	courseID = strings.TrimSpace(courseID)
	lessonID = strings.TrimSpace(lessonID)
	if courseID == "" || lessonID == "" {
		return "", "", invalidInput("Missing course_id or lesson_id")
	}
	return courseID, lessonID, nil
}

func (s *noteService) Get(ctx context.Context, courseID, lessonID string) (string, error) {
	email, err := requireEmail(ctx)
	if err != nil {
		return "", err
	}
	courseID, lessonID, err = noteKey(courseID, lessonID)
	if err != nil {
		return "", err
	}
	note, err := s.notes.Get(dbctx.New(ctx), email, courseID, lessonID)
	if err != nil || note == nil {
		return "", err
	}
	return note.Content, nil
}

func (s *noteService) Save(ctx context.Context, courseID, lessonID, content string) error {
	email, err := requireEmail(ctx)
	if err != nil {
		return err
	}
	courseID, lessonID, err = noteKey(courseID, lessonID)
	if err != nil {
		return err
	}
	return s.notes.Upsert(dbctx.New(ctx), &domain.Note{
		UserEmail: email,
		CourseID:  courseID,
		LessonID:  lessonID,
		Content:   content,
		UpdatedAt: time.Now().UTC(),
	})
}
