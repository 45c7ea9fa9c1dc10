package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"habit-tracker/backend/internal/logger"
	"habit-tracker/backend/internal/models"
	"habit-tracker/backend/internal/services"
	"habit-tracker/backend/internal/validation"
)

type ProgressHandler struct {
	progressService services.ProgressService
	log             logger.Logger
}

func NewProgressHandler(progressService services.ProgressService, log logger.Logger) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, log: log}
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	date := c.Param("date")
	if !validation.IsDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidDateMessage})
		return
	}

	records, err := h.progressService.ProgressForDate(c.Request.Context(), date)
	if err != nil {
		errorResponse(c, h.log, err, invalidDateMessage, "Progress entry not found", "Failed to fetch progress")
		return
	}
	c.JSON(http.StatusOK, records)
}

// UpsertProgress writes the record for the task in the body on the date in
// the path. A date in the body is ignored.
func (h *ProgressHandler) UpsertProgress(c *gin.Context) {
	date := c.Param("date")
	if !validation.IsDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidDateMessage})
		return
	}

	var input models.ProgressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingError(c, "Invalid progress data", err)
		return
	}
	input.Date = date

	record, err := h.progressService.UpsertProgress(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, h.log, err, "Invalid progress data", "Task not found", "Failed to update progress")
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *ProgressHandler) PatchProgress(c *gin.Context) {
	var update models.ProgressUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		bindingError(c, "Invalid update data", err)
		return
	}

	record, err := h.progressService.PatchProgress(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		errorResponse(c, h.log, err, "Invalid update data", "Progress entry not found", "Failed to update progress")
		return
	}
	c.JSON(http.StatusOK, record)
}
