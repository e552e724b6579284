package app

import (
	"github.com/yungbote/infinitetutor-backend/internal/data/repos"
	"github.com/yungbote/infinitetutor-backend/internal/platform/inflight"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
	"github.com/yungbote/infinitetutor-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Syllabus   services.SyllabusService
	Lesson     services.LessonService
	Quiz       services.QuizService
	Diagram    services.DiagramService
	Course     services.CourseService
	Note       services.NoteService
	Stats      services.StatsService
	Suggestion services.SuggestionService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, reposet repos.Set) Services {
	log.Info("Wiring services...")

	if clients.Redis == nil {
		log.Info("redis not configured; lesson generation is deduplicated per process only")
	}
	marker := inflight.NewMarker(log, clients.Redis, cfg.Redis.KeyPrefix, cfg.Redis.InflightTTL)

	return Services{
		Auth: services.NewAuthService(log, services.AuthConfig{
			JWTSecret: cfg.Auth.JWTSecret,
			Issuer:    cfg.Auth.Issuer,
			Audience:  cfg.Auth.Audience,
			Leeway:    cfg.Auth.Leeway,
		}),
		Syllabus: services.NewSyllabusService(log, clients.LLM),
		Lesson: services.NewLessonService(log, services.LessonServiceDeps{
			Client:         clients.LLM,
			Lessons:        reposet.Lessons,
			Flight:         inflight.NewGroup(cfg.LLM.InflightTimeout),
			Marker:         marker,
			WordsPerMinute: cfg.LLM.WordsPerMinute,
		}),
		Quiz:       services.NewQuizService(log, clients.LLM),
		Diagram:    services.NewDiagramService(log, clients.LLM),
		Course:     services.NewCourseService(log, reposet.Courses),
		Note:       services.NewNoteService(log, reposet.Notes),
		Stats:      services.NewStatsService(log, reposet.Activity, cfg.Stats.DefaultDailyGoal),
		Suggestion: services.NewSuggestionService(log, clients.LLM, reposet.Courses),
	}
}
