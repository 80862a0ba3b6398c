package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"leadgate/internal/metrics"
	"leadgate/internal/models"
	"leadgate/internal/repositories"
)

type LeadService interface {
	SubmitLead(ctx context.Context, sessionID string, req *models.LeadRequest, source models.FormSource, originIP string) (string, error)
}

type leadService struct {
	sessionRepo repositories.SessionRepository
	sink        LeadSink
	notifier    LeadNotifier
}

func NewLeadService(sessionRepo repositories.SessionRepository, sink LeadSink, notifier LeadNotifier) LeadService {
	if notifier == nil {
		notifier = NopLeadNotifier{}
	}
	return &leadService{sessionRepo: sessionRepo, sink: sink, notifier: notifier}
}

// SubmitLead forwards one verified lead to the sink and returns the sink's
// response body. The verified session is taken from the store before the
// forward, so a session can back at most one lead even under concurrent
// submits, and a second submission needs a new OTP. A missing or blank req is
// rejected with ErrMissingInput after the verification check and leaves the
// session in place.
func (s *leadService) SubmitLead(ctx context.Context, sessionID string, req *models.LeadRequest, source models.FormSource, originIP string) (string, error) {
	if req.IsEmpty() {
		verified, err := s.isVerified(ctx, sessionID)
		if err != nil {
			return "", err
		}
		if !verified {
			metrics.LeadsSubmittedTotal.WithLabelValues(string(source), "not_verified").Inc()
			return "", ErrNotVerified
		}
		return "", fmt.Errorf("%w: no lead data received", ErrMissingInput)
	}

	session, err := s.takeVerified(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session == nil {
		metrics.LeadsSubmittedTotal.WithLabelValues(string(source), "not_verified").Inc()
		return "", ErrNotVerified
	}

	payload := &models.LeadPayload{
		LeadFields:  req.LeadFields,
		FormSource:  source,
		UserIP:      originIP,
		Attribution: req.Attribution,
	}

	body, err := s.sink.Forward(ctx, payload)
	if err != nil {
		metrics.LeadsSubmittedTotal.WithLabelValues(string(source), "sink_error").Inc()
		log.Error().Err(err).Str("form_source", string(source)).Msg("Lead forward failed")
		if !errors.Is(err, ErrSinkUnreachable) {
			err = errors.Join(ErrSinkUnreachable, err)
		}
		return "", err
	}

	metrics.LeadsSubmittedTotal.WithLabelValues(string(source), "forwarded").Inc()
	log.Info().Str("mobile", session.Mobile).Str("form_source", string(source)).Msg("Lead submitted")
	s.notifier.NotifyLead(*payload)

	return body, nil
}

func (s *leadService) isVerified(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	session, err := s.sessionRepo.Find(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return session != nil && session.Verified, nil
}

func (s *leadService) takeVerified(ctx context.Context, sessionID string) (*models.OTPSession, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.sessionRepo.TakeVerified(ctx, sessionID)
}
