package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OTP Metrics
	OTPIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadgate_otp_issued_total",
		Help: "Total number of OTP issue requests (sent or failed).",
	}, []string{"status"}) // status: "sent" or "failed"
	OTPVerifyAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadgate_otp_verify_attempts_total",
		Help: "Total number of OTP verification attempts by outcome.",
	}, []string{"status"}) // status: "success", "invalid", "no_pending" or "missing"

	// Lead Metrics
	LeadsSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadgate_leads_submitted_total",
		Help: "Total number of lead submissions by form and outcome.",
	}, []string{"form_source", "status"}) // status: "forwarded", "sink_error" or "not_verified"
	LeadAlertsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadgate_lead_alerts_failed_total",
		Help: "Total number of best-effort lead alert notifications that failed.",
	})
)
