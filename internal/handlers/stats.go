package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"habit-tracker/backend/internal/logger"
	"habit-tracker/backend/internal/services"
)

type StatsHandler struct {
	statsService services.StatsService
	log          logger.Logger
}

func NewStatsHandler(statsService services.StatsService, log logger.Logger) *StatsHandler {
	return &StatsHandler{statsService: statsService, log: log}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	result, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		h.log.Errorf("stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, result)
}
