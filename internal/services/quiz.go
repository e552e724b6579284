package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/llm"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

const (
	DefaultQuizQuestions = 6
	MaxQuizQuestions     = 20
)

var errEmptyQuiz = errors.New("model returned no quiz questions")

type QuizRequest struct {
	LessonTitle  string `json:"lesson_title" validate:"required"`
	Topic        string `json:"topic"`
	Level        string `json:"level"`
	NumQuestions int    `json:"num_questions"`
}

type QuizService interface {
	Generate(ctx context.Context, req QuizRequest) (*domain.Quiz, error)
}

type quizService struct {
	log    *logger.Logger
	client llm.Client
}

func NewQuizService(log *logger.Logger, client llm.Client) QuizService {
	return &quizService{
		log:    log.With("service", "QuizService"),
		client: client,
	}
}

func (s *quizService) Generate(ctx context.Context, req QuizRequest) (*domain.Quiz, error) {
	req.LessonTitle = strings.TrimSpace(req.LessonTitle)
	if err := validateInput(req); err != nil {
		return nil, err
	}
	n := req.NumQuestions
	switch {
	case n <= 0:
		n = DefaultQuizQuestions
	case n > MaxQuizQuestions:
		n = MaxQuizQuestions
	}

	raw, err := s.client.GenerateJSON(ctx, quizPrompt(req.LessonTitle, req.Topic, req.Level, n))
	if err != nil {
		s.log.Error("quiz generation failed", "lesson_title", req.LessonTitle, "provider", s.client.Provider(), "error", err)
		return nil, err
	}
	var quiz domain.Quiz
	if err := llm.DecodeObject(raw, &quiz); err != nil {
		s.log.Error("quiz decode failed", "lesson_title", req.LessonTitle, "error", err)
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, errEmptyQuiz
	}
	for i := range quiz.Questions {
		normalizeQuestion(&quiz.Questions[i])
	}
	return &quiz, nil
}

// normalizeQuestion makes correct_index and correct_answer agree. Providers
// return either one; answers may be the option text or a letter (A, B, ...).
func normalizeQuestion(q *domain.Question) {
	if q.Options == nil {
		q.Options = []string{}
	}
	if q.CorrectIndex != nil && (*q.CorrectIndex < 0 || *q.CorrectIndex >= len(q.Options)) {
		q.CorrectIndex = nil
	}
	if q.CorrectIndex == nil {
		if idx, ok := answerIndex(q.Options, q.CorrectAnswer); ok {
			q.CorrectIndex = &idx
		}
	}
	if q.CorrectIndex != nil {
		q.CorrectAnswer = q.Options[*q.CorrectIndex]
	}
}

func answerIndex(options []string, answer string) (int, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return 0, false
	}
	for i, opt := range options {
		if opt == answer {
			return i, true
		}
	}
	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), answer) {
			return i, true
		}
	}
	if len(answer) == 1 {
		c := answer[0] | 0x20 // lower-case ASCII letter
		if c >= 'a' && c <= 'z' {
			if idx := int(c - 'a'); idx < len(options) {
				return idx, true
			}
		}
	}
	return 0, false
}
