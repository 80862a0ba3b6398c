package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leadgate/internal/handlers"
	"leadgate/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.LoggingMiddleware)
	r.Use(middlewares.NewPrometheusMiddleware(s.registry).Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET")
	r.Handle("/metrics", s.metricsHandler()).Methods("GET")

	s.registerOTPRoutes(r)
	s.registerLeadRoutes(r)

	return middlewares.CorsMiddleware(s.cfg.AllowedOrigins)(r)
}

func (s *Server) metricsHandler() http.Handler {
	if g, ok := s.registry.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

func (s *Server) registerOTPRoutes(r *mux.Router) {
	oh := handlers.NewOTPHandler(s.otpService, s.sessions)

	r.HandleFunc("/otp-issue", oh.IssueOTP).Methods("POST")
	r.HandleFunc("/otp-verify", oh.VerifyOTP).Methods("POST")
}

func (s *Server) registerLeadRoutes(r *mux.Router) {
	lh := handlers.NewLeadHandler(s.leadService, s.sessions)

	r.HandleFunc("/lead-submit-banner", lh.SubmitBanner).Methods("POST")
	r.HandleFunc("/lead-submit-brochure", lh.SubmitBrochure).Methods("POST")
	r.HandleFunc("/lead-submit-popup", lh.SubmitPopup).Methods("POST")
}
