package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"leadgate/internal/config"
	"leadgate/internal/database"
	"leadgate/internal/handlers"
	"leadgate/internal/repositories"
	"leadgate/internal/services"
)

type Server struct {
	port        int
	cfg         *config.Config
	httpServer  *http.Server
	db          database.Service
	sessions    *handlers.SessionManager
	otpService  services.OTPService
	leadService services.LeadService
	registry    prometheus.Registerer
}

func NewServer(cfg *config.Config) (*Server, error) {
	return newServer(cfg, prometheus.DefaultRegisterer)
}

func newServer(cfg *config.Config, registry prometheus.Registerer) (*Server, error) {
	if cfg.SessionKey == "" {
		return nil, fmt.Errorf("SESSION_KEY must be set")
	}
	if cfg.SheetWebhookURL == "" {
		log.Warn().Msg("SHEET_WEBHOOK_URL not set; lead submissions will fail")
	}

	db, sessionRepo, err := newSessionBackend(cfg)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}

	var notifier services.LeadNotifier = services.NopLeadNotifier{}
	if cfg.LeadAlertTo != "" && cfg.SMTPHost != "" {
		notifier = services.NewEmailLeadNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.LeadAlertTo)
		log.Info().Str("to", cfg.LeadAlertTo).Msg("Lead alert emails enabled")
	}

	s := &Server{
		port:     cfg.Port,
		cfg:      cfg,
		db:       db,
		sessions: handlers.NewSessionManager([]byte(cfg.SessionKey), cfg.SessionName, cfg.SessionMaxAge, cfg.SecureCookies),
		otpService: services.NewOTPService(
			sessionRepo,
			services.NewSMSGateway(cfg.SMS, httpClient),
			cfg.SMS.CountryCode,
			cfg.SMS.ComplianceName,
		),
		leadService: services.NewLeadService(sessionRepo, services.NewLeadSink(cfg.SheetWebhookURL, httpClient), notifier),
		registry:    registry,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30*time.Second + cfg.HTTPClientTimeout,
	}

	return s, nil
}

func newSessionBackend(cfg *config.Config) (database.Service, repositories.SessionRepository, error) {
	if cfg.RedisAddr == "" {
		log.Info().Dur("ttl", cfg.SessionMaxAge).Msg("Using in-memory session store")
		return database.NewMemory(), repositories.NewMemorySessionRepository(cfg.SessionMaxAge), nil
	}

	db, err := database.New(database.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	return db, repositories.NewRedisSessionRepository(db.Client(), cfg.SessionMaxAge), nil
}

func (s *Server) Start() error {
	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing session store")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
