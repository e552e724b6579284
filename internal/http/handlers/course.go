package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/infinitetutor-backend/internal/http/response"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
	"github.com/yungbote/infinitetutor-backend/internal/services"
)

type CourseHandler struct {
	log         *logger.Logger
	courses     services.CourseService
	suggestions services.SuggestionService
}

func NewCourseHandler(log *logger.Logger, courses services.CourseService, suggestions services.SuggestionService) *CourseHandler {
	return &CourseHandler{
		log:         log.With("handler", "CourseHandler"),
		courses:     courses,
		suggestions: suggestions,
	}
}

// GET /courses lists the caller's courses; GET /courses?course_id= returns one.
func (h *CourseHandler) GetCourses(c *gin.Context) {
	ctx := c.Request.Context()
	if courseID := strings.TrimSpace(c.Query("course_id")); courseID != "" {
		course, err := h.courses.Get(ctx, courseID)
		if err != nil {
			response.RespondServiceError(c, "load_course_failed", err)
			return
		}
		response.RespondOK(c, course)
		return
	}
	courses, err := h.courses.List(ctx)
	if err != nil {
		h.log.Error("ListCourses failed", "error", err)
		response.RespondServiceError(c, "load_courses_failed", err)
		return
	}
	response.RespondOK(c, courses)
}

// POST /courses
func (h *CourseHandler) SaveCourse(c *gin.Context) {
	var in services.SaveCourseInput
	if !bindBody(c, &in, false) {
		return
	}
	if err := h.courses.Save(c.Request.Context(), in); err != nil {
		h.log.Warn("SaveCourse failed", "error", err, "course_id", in.CourseID)
		response.RespondServiceError(c, "save_course_failed", err)
		return
	}
	response.RespondMessage(c, "Course saved")
}

// GET /suggestions
func (h *CourseHandler) Suggestions(c *gin.Context) {
	out, err := h.suggestions.Suggest(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "suggestions_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"suggestions": out})
}
