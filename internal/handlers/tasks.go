package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"habit-tracker/backend/internal/logger"
	"habit-tracker/backend/internal/models"
	"habit-tracker/backend/internal/services"
)

type TaskHandler struct {
	taskService services.TaskService
	log         logger.Logger
}

func NewTaskHandler(taskService services.TaskService, log logger.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, log: log}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(c.Request.Context())
	if err != nil {
		errorResponse(c, h.log, err, "Invalid request", "Task not found", "Failed to fetch tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input models.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingError(c, "Invalid task data", err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		handleTaskError(c, h.log, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleTaskError(c, h.log, err, "Failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var update models.TaskUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		bindingError(c, "Invalid task data", err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		handleTaskError(c, h.log, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask deactivates a task; its progress history stays.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		handleTaskError(c, h.log, err, "Failed to delete task")
		return
	}
	c.Status(http.StatusNoContent)
}

func handleTaskError(c *gin.Context, log logger.Logger, err error, internal string) {
	errorResponse(c, log, err, "Invalid task data", "Task not found", internal)
}
