package services

import (
	"context"
	"strings"

	"github.com/yungbote/infinitetutor-backend/internal/data/repos"
	"github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/llm"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

const (
	maxSuggestions     = 3
	suggestionTopicCap = 5
)

// fallbackSuggestions is served to new users and whenever generation fails.
var fallbackSuggestions = []domain.Suggestion{
	{Title: "History of Ancient Civilizations", Description: "Explore the rise and fall of great empires"},
	{Title: "Introduction to Data Science", Description: "Learn the fundamentals of data analysis"},
	{Title: "Creative Writing Masterclass", Description: "Develop your storytelling skills"},
}

type SuggestionService interface {
	Suggest(ctx context.Context) ([]domain.Suggestion, error)
}

type suggestionService struct {
	log     *logger.Logger
	client  llm.Client
	courses repos.CourseRepo
}

func NewSuggestionService(log *logger.Logger, client llm.Client, courses repos.CourseRepo) SuggestionService {
	return &suggestionService{
		log:     log.With("service", "SuggestionService"),
		client:  client,
		courses: courses,
	}
}

func fallback() []domain.Suggestion {
	out := make([]domain.Suggestion, len(fallbackSuggestions))
	copy(out, fallbackSuggestions)
	return out
}

func (s *suggestionService) Suggest(ctx context.Context) ([]domain.Suggestion, error) {
	email, err := requireEmail(ctx)
	if err != nil {
		return nil, err
	}
	topics, err := s.courses.ListRecentTopics(dbctx.New(ctx), email, suggestionTopicCap)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return fallback(), nil
	}

	raw, err := s.client.GenerateJSON(ctx, suggestionsPrompt(topics))
	if err != nil {
		s.log.Warn("suggestion generation failed, serving fallback", "provider", s.client.Provider(), "error", err)
		return fallback(), nil
	}
	var parsed struct {
		Suggestions []domain.Suggestion `json:"suggestions"`
	}
	if err := llm.DecodeObject(raw, &parsed); err != nil {
		s.log.Warn("suggestion decode failed, serving fallback", "error", err)
		return fallback(), nil
	}
	out := make([]domain.Suggestion, 0, maxSuggestions)
	for _, sg := range parsed.Suggestions {
		if strings.TrimSpace(sg.Title) == "" {
			continue
		}
		out = append(out, sg)
		if len(out) == maxSuggestions {
			break
		}
	}
	if len(out) == 0 {
		return fallback(), nil
	}
	return out, nil
}
