package services

import (
	"context"
	"strings"

	"github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/llm"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

type DiagramRequest struct {
	Concept string `json:"concept" validate:"required"`
	Level   string `json:"level"`
}

type DiagramService interface {
	Generate(ctx context.Context, req DiagramRequest) (*domain.Diagram, error)
}

type diagramService struct {
	log    *logger.Logger
	client llm.Client
}

func NewDiagramService(log *logger.Logger, client llm.Client) DiagramService {
	return &diagramService{
		log:    log.With("service", "DiagramService"),
		client: client,
	}
}

func (s *diagramService) Generate(ctx context.Context, req DiagramRequest) (*domain.Diagram, error) {
	req.Concept = strings.TrimSpace(req.Concept)
	if err := validateInput(req); err != nil {
		return nil, err
	}
	level := strings.TrimSpace(req.Level)
	if level == "" {
		level = defaultLevel
	}
	text, err := s.client.GenerateText(ctx, diagramPrompt(req.Concept, level))
	if err != nil {
		s.log.Error("diagram generation failed", "concept", req.Concept, "provider", s.client.Provider(), "error", err)
		return nil, err
	}
	code := llm.StripTextFence(text)
	if code == "" {
		return nil, llm.ErrEmptyResponse
	}
	return &domain.Diagram{MermaidCode: code}, nil
}
