package http

import (
	"github.com/gin-gonic/gin"

	"taskmanager/internal/adapter/http/handlers"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/core/ports"
)

type Handlers struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Tasks  *handlers.TaskHandler
	Users  *handlers.UserHandler
}

type Security struct {
	Tokens      ports.TokenManager
	AuthService ports.AuthService
	TaskLimiter *middleware.RateLimiter
}

// RegisterRoutes mounts the API. Task routes run the throttle before
// authentication; /api/v2/tasks/ is public and unthrottled.
func RegisterRoutes(r *gin.Engine, h Handlers, sec Security) {
	requireAuth := middleware.RequireAuth(sec.AuthService)

	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)
	}

	v1 := api.Group("/v1")
	{
		v1.POST("/signup/", h.Auth.Signup)
		v1.POST("/login/", h.Auth.Login)
		v1.POST("/token/refresh/", h.Auth.Refresh)
		v1.PUT("/change/password/", requireAuth, h.Auth.ChangePassword)

		v1.GET("/users/", requireAuth, h.Users.ListUsers)
		v1.GET("/users/:id/", requireAuth, h.Users.GetUser)
	}

	tasks := v1.Group("/tasks")
	tasks.Use(middleware.Identify(sec.Tokens), middleware.Throttle(sec.TaskLimiter), requireAuth)
	{
		tasks.GET("/", h.Tasks.ListTasks)
		tasks.POST("/", h.Tasks.CreateTask)
		tasks.GET("/:id/", h.Tasks.GetTask)
		tasks.PUT("/:id/", h.Tasks.UpdateTask)
		tasks.PATCH("/:id/", h.Tasks.PartialUpdateTask)
		tasks.DELETE("/:id/", h.Tasks.DeleteTask)
		tasks.POST("/:id/comments/", h.Tasks.AddComment)
	}

	v2 := api.Group("/v2")
	{
		v2.GET("/tasks/", h.Tasks.ListPublicTasks)
	}
}
