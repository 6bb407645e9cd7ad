// Package http exposes the fingerprint operations over REST and streams
// events as Server-Sent Events.
package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

const (
	defaultHeartbeat      = 15 * time.Second
	defaultRequestTimeout = time.Minute
)

// Router builds the fiber application.
type Router struct {
	service        FingerprintService
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
	heartbeat      time.Duration
	requestTimeout time.Duration
}

func New(
	service FingerprintService,
	tokenService TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		service:        service,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
		heartbeat:      defaultHeartbeat,
		requestTimeout: defaultRequestTimeout,
	}
}

// WithRequestTimeout bounds every handler's context. Non-positive values keep
// the default.
func (r *Router) WithRequestTimeout(d time.Duration) *Router {
	if d > 0 {
		r.requestTimeout = d
	}
	return r
}

// Register creates the application with every route and middleware.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "fingerprintd",
		DisableStartupMessage: true,
		ErrorHandler:          r.handleError,
	})

	app.Use(recover.New())
	app.Use(r.logRequest)
	app.Use(r.withDeadline)
	app.Use(cors.New())

	app.Get("/health", r.health)

	fp := app.Group("/fingerprint", r.authenticate)
	fp.Post("/open", r.openDevice)
	fp.Post("/close", r.closeDevice)
	fp.Get("/status", r.deviceStatus)
	fp.Post("/verify/:identity", r.verify)
	fp.Post("/enroll/:identity", r.enroll)
	fp.Post("/duplicates", r.checkDuplicate)
	fp.Get("/enrollments", r.listEnrollments)
	fp.Get("/events", r.events)

	return app
}
