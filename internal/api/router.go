package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	"github.com/donelist/task-system/internal/api/handler"
	"github.com/donelist/task-system/internal/core/ports"
)

// Deps carries everything the router needs; the storage backend was selected
// before this point and never changes afterwards.
type Deps struct {
	Tasks ports.TaskService
	// BackendName identifies the active storage backend for the readiness probe.
	BackendName string
	BackendPing func(ctx context.Context) error
	// Redis is nil when the idempotency guard is not configured.
	Redis  *redis.Client
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("taskapi"))

	// --- Task routes ---
	taskHandler := handler.NewTaskHandler(d.Tasks)
	api := e.Group("/api")
	api.GET("/tasks", taskHandler.List)
	api.POST("/tasks", taskHandler.Create)
	api.DELETE("/tasks/completed/clear", taskHandler.ClearCompleted)
	api.GET("/tasks/:id", taskHandler.Get)
	api.PATCH("/tasks/:id", taskHandler.Update)
	api.DELETE("/tasks/:id", taskHandler.Delete)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.BackendName, d.BackendPing, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
