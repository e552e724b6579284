package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/infinitetutor-backend/internal/http/response"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
	"github.com/yungbote/infinitetutor-backend/internal/services"
)

type NoteHandler struct {
	log   *logger.Logger
	notes services.NoteService
}

func NewNoteHandler(log *logger.Logger, notes services.NoteService) *NoteHandler {
	return &NoteHandler{log: log.With("handler", "NoteHandler"), notes: notes}
}

// GET /notes?course_id=&lesson_id=
func (h *NoteHandler) GetNote(c *gin.Context) {
	content, err := h.notes.Get(c.Request.Context(), c.Query("course_id"), c.Query("lesson_id"))
	if err != nil {
		response.RespondServiceError(c, "load_note_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"content": content})
}

// POST /notes?course_id=&lesson_id=
func (h *NoteHandler) SaveNote(c *gin.Context) {
	var body struct {
		Content string `json:"content"`
	}
	if !bindBody(c, &body, true) {
		return
	}
	if err := h.notes.Save(c.Request.Context(), c.Query("course_id"), c.Query("lesson_id"), body.Content); err != nil {
		h.log.Warn("SaveNote failed", "error", err)
		response.RespondServiceError(c, "save_note_failed", err)
		return
	}
	response.RespondMessage(c, "Note saved")
}
