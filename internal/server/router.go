package server

import (
	"github.com/gin-gonic/gin"

	"habit-tracker/backend/internal/handlers"
	"habit-tracker/backend/internal/middleware"
)

func (a *App) setupRouter() *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryWithLog(a.log))
	router.Use(middleware.RequestLogger(a.log))
	router.Use(a.monitor.MetricsMiddleware())
	router.Use(middleware.CORS(a.cfg.CORS))

	router.GET("/health", a.monitor.HealthHandler())
	router.GET("/ready", a.monitor.ReadinessHandler())
	router.GET("/live", a.monitor.LivenessHandler())
	router.GET("/metrics", a.monitor.MetricsHandler())

	taskHandler := handlers.NewTaskHandler(a.Tasks, a.log)
	progressHandler := handlers.NewProgressHandler(a.Progress, a.log)
	statsHandler := handlers.NewStatsHandler(a.Stats, a.log)

	api := router.Group("/api")
	if a.limiter != nil {
		api.Use(a.limiter.Middleware())
	}
	{
		api.GET("/tasks", taskHandler.ListTasks)
		api.POST("/tasks", taskHandler.CreateTask)
		api.GET("/tasks/:id", taskHandler.GetTask)
		api.PATCH("/tasks/:id", taskHandler.UpdateTask)
		api.DELETE("/tasks/:id", taskHandler.DeleteTask)

		api.GET("/progress/:date", progressHandler.GetProgress)
		api.POST("/progress/:date", progressHandler.UpsertProgress)
		api.PATCH("/progress/:id", progressHandler.PatchProgress)

		api.GET("/stats", statsHandler.GetStats)
	}

	return router
}
