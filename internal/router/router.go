package router

import (
	"net/http"

	_ "socialfeed/internal/docs" // registers the OpenAPI document

	"socialfeed/internal/handlers/api/v1/comments"
	"socialfeed/internal/middleware"
	"socialfeed/internal/monitoring"
	"socialfeed/internal/response"
	"socialfeed/internal/services"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Options holds the router dependencies
type Options struct {
	Services        *services.ServiceCollection
	Auth            *middleware.AuthMiddleware
	ResponseBuilder *response.Builder
	Dashboard       *monitoring.Dashboard
	Logging         *middleware.LoggingConfig
	Recovery        *middleware.RecoveryConfig
	Swagger         *middleware.SwaggerConfig
	CORSOrigin      string
	Logger          *zap.Logger
}

// SetupRouter configures all HTTP routes and returns the main handler
func SetupRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	builder := opts.ResponseBuilder
	if builder == nil {
		builder = response.NewBuilder(response.DefaultConfig(), logger)
	}

	r := chi.NewRouter()
	r.Use(chimw.CleanPath)
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.StructuredLogging(logger, opts.Logging))
	r.Use(response.Middleware(builder))
	r.Use(middleware.Recovery(opts.Recovery, logger))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(opts.CORSOrigin))
	r.Use(chimw.Heartbeat("/ping"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		builder.WriteError(w, r, services.NewNotFoundError("Not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		builder.WriteJSON(w, r, &response.ErrorResponse{Detail: "Method not allowed"}, http.StatusMethodNotAllowed)
	})

	// Operational endpoints
	if opts.Dashboard != nil {
		r.Get("/health", healthHandler(opts.Dashboard, builder))
		r.With(opts.Auth.RequireAuth()).Get("/internal/metrics", metricsHandler(opts.Dashboard, builder))
	}
	r.Handle("/swagger/*", middleware.SwaggerHandler(opts.Swagger))

	// Comment API
	controller := comments.NewCommentController(opts.Services.CommentService, logger, builder)
	r.Route("/api/comments", func(r chi.Router) {
		r.Use(opts.Auth.RequireAuth())
		controller.Routes(r)
	})

	logger.Info("Router setup completed",
		zap.String("api", "/api/comments"),
		zap.String("swagger_ui", "/swagger/index.html"),
	)
	return r
}

// healthHandler reports 503 while the comment store is unreachable
func healthHandler(dashboard *monitoring.Dashboard, builder *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := dashboard.GetSystemHealth(r.Context())

		status := http.StatusOK
		if health.Status == "unhealthy" {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		builder.WriteJSON(w, r, health, status)
	}
}

func metricsHandler(dashboard *monitoring.Dashboard, builder *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		builder.WriteSuccess(w, r, dashboard.GetComprehensiveMetrics())
	}
}
