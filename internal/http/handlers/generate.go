package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/infinitetutor-backend/internal/http/response"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
	"github.com/yungbote/infinitetutor-backend/internal/services"
)

// GenerateHandler serves the LLM-backed endpoints. None of them require a
// caller identity.
type GenerateHandler struct {
	log      *logger.Logger
	syllabus services.SyllabusService
	lesson   services.LessonService
	quiz     services.QuizService
	diagram  services.DiagramService
}

func NewGenerateHandler(
	log *logger.Logger,
	syllabus services.SyllabusService,
	lesson services.LessonService,
	quiz services.QuizService,
	diagram services.DiagramService,
) *GenerateHandler {
	return &GenerateHandler{
		log:      log.With("handler", "GenerateHandler"),
		syllabus: syllabus,
		lesson:   lesson,
		quiz:     quiz,
		diagram:  diagram,
	}
}

type syllabusBody struct {
	services.SyllabusRequest
	// Older clients send the budget as daily_minutes.
	DailyMinutes *int `json:"daily_minutes"`
}

// POST /generate-syllabus
func (h *GenerateHandler) Syllabus(c *gin.Context) {
	var body syllabusBody
	if !bindBody(c, &body, false) {
		return
	}
	req := body.SyllabusRequest
	if req.DailyTime == 0 && body.DailyMinutes != nil {
		req.DailyTime = *body.DailyMinutes
	}
	out, err := h.syllabus.Generate(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("syllabus generation failed", "error", err, "topic", req.Topic)
		response.RespondServiceError(c, "generation_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// POST /generate-lesson
func (h *GenerateHandler) Lesson(c *gin.Context) {
	var req services.LessonRequest
	if !bindBody(c, &req, false) {
		return
	}
	out, err := h.lesson.Generate(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("lesson generation failed", "error", err, "course_id", req.CourseID, "lesson_title", req.LessonTitle)
		response.RespondServiceError(c, "generation_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// POST /generate-quiz
func (h *GenerateHandler) Quiz(c *gin.Context) {
	var req services.QuizRequest
	if !bindBody(c, &req, false) {
		return
	}
	out, err := h.quiz.Generate(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("quiz generation failed", "error", err, "lesson_title", req.LessonTitle)
		response.RespondServiceError(c, "generation_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// POST /generate-diagram
func (h *GenerateHandler) Diagram(c *gin.Context) {
	var req services.DiagramRequest
	if !bindBody(c, &req, false) {
		return
	}
	out, err := h.diagram.Generate(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("diagram generation failed", "error", err, "concept", req.Concept)
		response.RespondServiceError(c, "generation_failed", err)
		return
	}
	response.RespondOK(c, out)
}
