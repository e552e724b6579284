package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/infinitetutor-backend/internal/http/response"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
	"github.com/yungbote/infinitetutor-backend/internal/services"
)

type StatsHandler struct {
	log   *logger.Logger
	stats services.StatsService
}

func NewStatsHandler(log *logger.Logger, stats services.StatsService) *StatsHandler {
	return &StatsHandler{log: log.With("handler", "StatsHandler"), stats: stats}
}

// GET /stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	out, err := h.stats.Get(c.Request.Context())
	if err != nil {
		h.log.Error("GetStats failed", "error", err)
		response.RespondServiceError(c, "load_stats_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// POST /stats adds minutes and lessons to today's record.
func (h *StatsHandler) LogActivity(c *gin.Context) {
	var in services.LogActivityInput
	if !bindBody(c, &in, true) {
		return
	}
	if err := h.stats.Log(c.Request.Context(), in); err != nil {
		h.log.Warn("LogActivity failed", "error", err)
		response.RespondServiceError(c, "log_activity_failed", err)
		return
	}
	response.RespondMessage(c, "Activity logged")
}
