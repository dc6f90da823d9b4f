package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"github.com/clinicware/clinic-api/internal/config"
	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/email"
	appointmenthandler "github.com/clinicware/clinic-api/internal/handler/appointment"
	authhandler "github.com/clinicware/clinic-api/internal/handler/auth"
	dashboardhandler "github.com/clinicware/clinic-api/internal/handler/dashboard"
	explainhandler "github.com/clinicware/clinic-api/internal/handler/explain"
	fileshandler "github.com/clinicware/clinic-api/internal/handler/files"
	patienthandler "github.com/clinicware/clinic-api/internal/handler/patient"
	prescriptionhandler "github.com/clinicware/clinic-api/internal/handler/prescription"
	userhandler "github.com/clinicware/clinic-api/internal/handler/user"
	"github.com/clinicware/clinic-api/internal/middleware"
	"github.com/clinicware/clinic-api/internal/pdf"
	"github.com/clinicware/clinic-api/internal/repository"
	"github.com/clinicware/clinic-api/internal/router"
	appointmentservice "github.com/clinicware/clinic-api/internal/service/appointment"
	authservice "github.com/clinicware/clinic-api/internal/service/auth"
	explainservice "github.com/clinicware/clinic-api/internal/service/explain"
	patientservice "github.com/clinicware/clinic-api/internal/service/patient"
	prescriptionservice "github.com/clinicware/clinic-api/internal/service/prescription"
	sessionservice "github.com/clinicware/clinic-api/internal/service/session"
	userservice "github.com/clinicware/clinic-api/internal/service/user"
	"github.com/clinicware/clinic-api/internal/storage"
	pkgauth "github.com/clinicware/clinic-api/pkg/auth"
	"github.com/clinicware/clinic-api/pkg/logger"
	"github.com/clinicware/clinic-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	store, err := docstore.NewPostgresStore(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()

	userRepo := repository.NewUserRepository(store)
	patientRepo := repository.NewPatientRepository(store)
	appointmentRepo := repository.NewAppointmentRepository(store)
	prescriptionRepo := repository.NewPrescriptionRepository(store)

	jwtSvc := pkgauth.NewJWTService(cfg.Secrets.JWTSecret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)

	var sessions authservice.SessionStore
	if cfg.Redis.URL != "" {
		sessions, err = authservice.NewRedisSessionStore(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	} else {
		sessions = authservice.NewMemorySessionStore()
	}

	var emailSvc email.Service
	if cfg.SMTP.Host != "" {
		emailSvc = email.NewSMTPService(cfg.SMTP)
	} else {
		emailSvc = email.NewLogService(log)
	}

	var blobs storage.BlobStore
	if cfg.Storage.Secret != "" {
		blobs = storage.NewFileStore(afero.NewOsFs(), cfg.Storage)
	}

	var providers []explainservice.Provider
	if key := cfg.Secrets.GeminiAPIKey; key != "" {
		providers = append(providers, explainservice.NewGeminiProvider(key, "", nil))
	}
	if key := cfg.Secrets.OpenAIAPIKey; key != "" {
		providers = append(providers, explainservice.NewOpenAIProvider(key, "", nil))
	}

	authSvc := authservice.NewService(userRepo, jwtSvc, hasher, sessions, emailSvc, log)
	resolver := sessionservice.NewResolver(authSvc, userRepo)
	userSvc := userservice.NewService(userRepo, hasher, log)
	patientSvc := patientservice.NewService(patientRepo, log)
	appointmentSvc := appointmentservice.NewService(appointmentRepo, patientRepo, userRepo, log)
	prescriptionSvc := prescriptionservice.NewService(prescriptionRepo, patientRepo, userRepo,
		pdf.NewRenderer("Clinicware Health"), blobs, log)
	explainSvc := explainservice.NewService(providers, log)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	handlers := router.Handlers{
		Auth:         authhandler.NewHandler(authSvc, resolver),
		User:         userhandler.NewHandler(userSvc, resolver),
		Patient:      patienthandler.NewHandler(patientSvc, appointmentSvc, prescriptionSvc),
		Appointment:  appointmenthandler.NewHandler(appointmentSvc),
		Prescription: prescriptionhandler.NewHandler(prescriptionSvc),
		Explain:      explainhandler.NewHandler(explainSvc, log),
		Dashboard:    dashboardhandler.NewHandler(patientRepo, appointmentRepo, prescriptionRepo, userRepo),
		Files:        fileshandler.NewHandler(blobs),
	}

	r := router.New(authMiddleware, handlers, log, router.Config{
		RateLimit: rate.Limit(cfg.RateLimit.RPS),
		RateBurst: cfg.RateLimit.Burst,
		CORS:      middleware.DefaultCORSConfig(),
		Release:   cfg.Server.Release,
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
