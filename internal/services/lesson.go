package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yungbote/infinitetutor-backend/internal/data/repos"
	"github.com/yungbote/infinitetutor-backend/internal/domain"
	"github.com/yungbote/infinitetutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/infinitetutor-backend/internal/platform/dbctx"
	"github.com/yungbote/infinitetutor-backend/internal/platform/inflight"
	"github.com/yungbote/infinitetutor-backend/internal/platform/llm"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

// CachedLessonSummary replaces the summary of lessons served from the cache.
const CachedLessonSummary = "Loaded from cache"

var errEmptyLesson = errors.New("model returned no lesson content")

type LessonRequest struct {
	CourseID    string `json:"course_id"`
	LessonTitle string `json:"lesson_title" validate:"required"`
	Topic       string `json:"topic"`
	Level       string `json:"level"`
}

type LessonService interface {
	Generate(ctx context.Context, req LessonRequest) (*domain.LessonContent, error)
}

type lessonService struct {
	log     *logger.Logger
	client  llm.Client
	lessons repos.LessonCacheRepo
	flight  *inflight.Group
	marker  *inflight.Marker
	wpm     int
}

type LessonServiceDeps struct {
	Client  llm.Client
	Lessons repos.LessonCacheRepo
	Flight  *inflight.Group
	// Marker is optional; nil keeps deduplication in-process only.
	Marker         *inflight.Marker
	WordsPerMinute int
}

func NewLessonService(log *logger.Logger, deps LessonServiceDeps) LessonService {
	flight := deps.Flight
	if flight == nil {
		flight = inflight.NewGroup(0)
	}
	marker := deps.Marker
	if marker == nil {
		marker = inflight.NewMarker(log, nil, "", 0)
	}
	return &lessonService{
		log:     log.With("service", "LessonService"),
		client:  deps.Client,
		lessons: deps.Lessons,
		flight:  flight,
		marker:  marker,
		wpm:     deps.WordsPerMinute,
	}
}

func (s *lessonService) Generate(ctx context.Context, req LessonRequest) (*domain.LessonContent, error) {
	req.CourseID = strings.TrimSpace(req.CourseID)
	req.LessonTitle = strings.TrimSpace(req.LessonTitle)
	if err := validateInput(req); err != nil {
		return nil, err
	}

	// Without a course there is no cache key.
	if req.CourseID == "" {
		ctxutil.NoteLessonCache(ctx, "uncached")
		return s.generate(ctx, req)
	}
	ctxutil.NoteCourse(ctx, req.CourseID)

	hit, err := s.lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	if hit != nil {
		ctxutil.NoteLessonCache(ctx, "hit")
		return hit, nil
	}

	key := req.CourseID + "\x00" + req.LessonTitle
	v, shared, err := s.flight.Do(ctx, key, func(fctx context.Context) (any, error) {
		return s.fill(fctx, key, req)
	})
	if err != nil {
		return nil, err
	}
	res := v.(*lessonFill)
	outcome := res.outcome
	if shared {
		outcome = "shared"
	}
	ctxutil.NoteLessonCache(ctx, outcome)
	out := *res.lesson
	return &out, nil
}

// lessonFill is one shared fill result and how it was obtained.
type lessonFill struct {
	lesson  *domain.LessonContent
	outcome string
}

// fill generates and caches one lesson. Another replica already generating
// the same key is waited on rather than duplicated.
func (s *lessonService) fill(ctx context.Context, key string, req LessonRequest) (*lessonFill, error) {
	release, acquired, err := s.marker.Acquire(ctx, key)
	if err != nil {
		s.log.Warn("inflight marker unavailable, generating anyway", "course_id", req.CourseID, "error", err)
		acquired = true
	}
	if acquired {
		defer release()
	} else {
		var hit *domain.LessonContent
		found, werr := s.marker.Wait(ctx, key, func(ctx context.Context) (bool, error) {
			h, err := s.lookup(ctx, req)
			hit = h
			return h != nil, err
		})
		if werr == nil && found {
			return &lessonFill{lesson: hit, outcome: "waited"}, nil
		}
		if werr != nil {
			s.log.Warn("waiting on inflight lesson failed", "course_id", req.CourseID, "error", werr)
		}
	}

	// A concurrent holder may have finished between our lookup and acquiring the marker.
	if hit, err := s.lookup(ctx, req); err == nil && hit != nil {
		return &lessonFill{lesson: hit, outcome: "hit"}, nil
	}

	out, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	row := &domain.CachedLesson{
		CourseID:        req.CourseID,
		LessonTitle:     req.LessonTitle,
		Topic:           req.Topic,
		Level:           req.Level,
		ContentMarkdown: out.ContentMarkdown,
		MermaidCode:     out.MermaidCode,
		Explanation:     out.Summary,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.lessons.Upsert(dbctx.New(ctx), row); err != nil {
		s.log.Warn("lesson cache write failed", "course_id", req.CourseID, "lesson_title", req.LessonTitle, "error", err)
	}
	return &lessonFill{lesson: out, outcome: "miss"}, nil
}

func (s *lessonService) lookup(ctx context.Context, req LessonRequest) (*domain.LessonContent, error) {
	row, err := s.lessons.Get(dbctx.New(ctx), req.CourseID, req.LessonTitle)
	if err != nil || row == nil {
		return nil, err
	}
	return &domain.LessonContent{
		LessonTitle:      row.LessonTitle,
		ContentMarkdown:  row.ContentMarkdown,
		MermaidCode:      row.MermaidCode,
		Explanation:      row.Explanation,
		Summary:          CachedLessonSummary,
		EstimatedMinutes: EstimateReadingMinutes(row.ContentMarkdown, s.wpm),
		Cached:           true,
	}, nil
}

func (s *lessonService) generate(ctx context.Context, req LessonRequest) (*domain.LessonContent, error) {
	raw, err := s.client.GenerateJSON(ctx, lessonPrompt(req.LessonTitle, req.Topic, req.Level))
	if err != nil {
		s.log.Error("lesson generation failed", "lesson_title", req.LessonTitle, "provider", s.client.Provider(), "error", err)
		return nil, err
	}
	// The model's lesson_title is ignored: the requested title is the cache
	// key and is what a later cache hit returns.
	var parsed struct {
		ContentMarkdown string `json:"content_markdown"`
		MermaidCode     string `json:"mermaid_code"`
		Summary         string `json:"summary"`
	}
	if err := llm.DecodeObject(raw, &parsed); err != nil {
		s.log.Error("lesson decode failed", "lesson_title", req.LessonTitle, "error", err)
		return nil, err
	}
	if strings.TrimSpace(parsed.ContentMarkdown) == "" {
		return nil, errEmptyLesson
	}
	return &domain.LessonContent{
		LessonTitle:      req.LessonTitle,
		ContentMarkdown:  parsed.ContentMarkdown,
		MermaidCode:      llm.StripTextFence(parsed.MermaidCode),
		Summary:          parsed.Summary,
		EstimatedMinutes: EstimateReadingMinutes(parsed.ContentMarkdown, s.wpm),
	}, nil
}
