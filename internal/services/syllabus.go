package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/domain/learning"
	"github.com/yungbote/infinitetutor-backend/internal/platform/llm"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

const (
	defaultLevel        = learning.LevelIntermediate
	defaultDailyMinutes = 30
)

type SyllabusRequest struct {
	Topic     string `json:"topic" validate:"required"`
	Level     string `json:"level"`
	DailyTime int    `json:"daily_time" validate:"gte=0"`
}

type SyllabusService interface {
	Generate(ctx context.Context, req SyllabusRequest) (*domain.Syllabus, error)
}

type syllabusService struct {
	log    *logger.Logger
	client llm.Client
}

func NewSyllabusService(log *logger.Logger, client llm.Client) SyllabusService {
	return &syllabusService{
		log:    log.With("service", "SyllabusService"),
		client: client,
	}
}

func (s *syllabusService) Generate(ctx context.Context, req SyllabusRequest) (*domain.Syllabus, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if err := validateInput(req); err != nil {
		return nil, err
	}
	level := strings.TrimSpace(req.Level)
	if level == "" {
		level = defaultLevel
	}
	minutes := req.DailyTime
	if minutes == 0 {
		minutes = defaultDailyMinutes
	}

	raw, err := s.client.GenerateJSON(ctx, syllabusPrompt(req.Topic, level, minutes))
	if err != nil {
		s.log.Error("syllabus generation failed", "topic", req.Topic, "provider", s.client.Provider(), "error", err)
		return nil, err
	}
	var out domain.Syllabus
	if err := llm.DecodeObject(raw, &out); err != nil {
		s.log.Error("syllabus decode failed", "topic", req.Topic, "error", err)
		return nil, err
	}
	if strings.TrimSpace(out.CourseID) == "" {
		out.CourseID = uuid.NewString()
	}
	if out.Chapters == nil {
		out.Chapters = []domain.Chapter{}
	}
	for i := range out.Chapters {
		if out.Chapters[i].Lessons == nil {
			out.Chapters[i].Lessons = []string{}
		}
	}
	return &out, nil
}
