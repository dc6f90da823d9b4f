package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/clinicware/clinic-api/internal/handler"
	appointmenthandler "github.com/clinicware/clinic-api/internal/handler/appointment"
	authhandler "github.com/clinicware/clinic-api/internal/handler/auth"
	dashboardhandler "github.com/clinicware/clinic-api/internal/handler/dashboard"
	explainhandler "github.com/clinicware/clinic-api/internal/handler/explain"
	fileshandler "github.com/clinicware/clinic-api/internal/handler/files"
	patienthandler "github.com/clinicware/clinic-api/internal/handler/patient"
	prescriptionhandler "github.com/clinicware/clinic-api/internal/handler/prescription"
	userhandler "github.com/clinicware/clinic-api/internal/handler/user"
	"github.com/clinicware/clinic-api/internal/middleware"
)

type Config struct {
	RateLimit rate.Limit
	RateBurst int
	CORS      middleware.CORSConfig
	Release   bool
}

type Handlers struct {
	Auth         *authhandler.Handler
	User         *userhandler.Handler
	Patient      *patienthandler.Handler
	Appointment  *appointmenthandler.Handler
	Prescription *prescriptionhandler.Handler
	Explain      *explainhandler.Handler
	Dashboard    *dashboardhandler.Handler
	Files        *fileshandler.Handler
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *routerMetrics
	registry *prometheus.Registry
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func New(auth *middleware.AuthMiddleware, handlers Handlers, log zerolog.Logger, config Config) *Router {
	if config.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	registry := prometheus.NewRegistry()
	metrics := initRouterMetrics(registry)

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  metrics,
		registry: registry,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.ErrorHandler(log),
		r.metricsMiddleware(),
	)

	engine.Use(middleware.CORS(config.CORS))

	// Navigation gate for browser page paths; API paths are unaffected.
	engine.Use(middleware.RouteAccess())

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/health", handler.HealthCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	// Public routes: authentication and signed file links.
	r.handlers.Auth.RegisterRoutes(api)
	r.handlers.Files.RegisterRoutes(api)

	// Protected routes.
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.handlers.User.RegisterRoutes(protected, r.auth)
	r.handlers.Patient.RegisterRoutes(protected, r.auth)
	r.handlers.Appointment.RegisterRoutes(protected, r.auth)
	r.handlers.Prescription.RegisterRoutes(protected, r.auth)
	r.handlers.Explain.RegisterRoutes(protected)
	r.handlers.Dashboard.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(registry *prometheus.Registry) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "clinic_api_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_api_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_api_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}

	registry.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
