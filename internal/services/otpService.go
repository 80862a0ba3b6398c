package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"leadgate/internal/metrics"
	"leadgate/internal/models"
	"leadgate/internal/repositories"
	"leadgate/internal/utils"
)

// IssueResult describes a delivered OTP.
type IssueResult struct {
	Mobile          string
	GatewayResponse string
}

type OTPService interface {
	IssueOTP(ctx context.Context, sessionID, mobile string) (*IssueResult, error)
	VerifyOTP(ctx context.Context, sessionID, code string) error
}

type otpService struct {
	sessionRepo    repositories.SessionRepository
	gateway        SMSGateway
	countryCode    string
	complianceName string
	generate       func() (string, error)
}

func NewOTPService(sessionRepo repositories.SessionRepository, gateway SMSGateway, countryCode, complianceName string) OTPService {
	return &otpService{
		sessionRepo:    sessionRepo,
		gateway:        gateway,
		countryCode:    countryCode,
		complianceName: complianceName,
		generate:       utils.GenerateOTP,
	}
}

func (s *otpService) IssueOTP(ctx context.Context, sessionID, mobile string) (*IssueResult, error) {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return nil, fmt.Errorf("%w: mobile number is required", ErrMissingInput)
	}

	mobile = utils.NormalizeMobile(mobile, s.countryCode)

	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("error generating OTP: %w", err)
	}

	raw, err := s.gateway.Send(ctx, mobile, OTPMessage(code, s.complianceName))
	if err != nil {
		metrics.OTPIssuedTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("mobile", mobile).Msg("OTP delivery failed")
		if !errors.Is(err, ErrGatewayUnreachable) {
			err = &DeliveryError{Reason: "Failed to send OTP", Err: err}
		}
		return nil, err
	}

	// A fresh code replaces any earlier one and clears a previous verification.
	session := &models.OTPSession{PendingOTP: code, Mobile: mobile}
	if err := s.sessionRepo.Save(ctx, sessionID, session); err != nil {
		return nil, err
	}

	metrics.OTPIssuedTotal.WithLabelValues("sent").Inc()
	log.Info().Str("mobile", mobile).Msg("OTP issued")

	return &IssueResult{Mobile: mobile, GatewayResponse: raw}, nil
}

func (s *otpService) VerifyOTP(ctx context.Context, sessionID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		metrics.OTPVerifyAttemptsTotal.WithLabelValues("missing").Inc()
		return fmt.Errorf("%w: OTP is required", ErrMissingInput)
	}
	if sessionID == "" {
		metrics.OTPVerifyAttemptsTotal.WithLabelValues("no_pending").Inc()
		return ErrNoPendingOTP
	}

	// The compare and the write happen in one repository step so a code
	// reissued meanwhile cannot be overwritten by a verify of the old one.
	var mobile string
	err := s.sessionRepo.Update(ctx, sessionID, func(session *models.OTPSession) error {
		if !session.HasPendingOTP() {
			return ErrNoPendingOTP
		}
		mobile = session.Mobile
		// The pending code stays valid after a mismatch; attempts are not limited.
		if code != session.PendingOTP {
			return ErrInvalidOTP
		}
		session.Verified = true
		return nil
	})

	switch {
	case errors.Is(err, ErrNoPendingOTP):
		metrics.OTPVerifyAttemptsTotal.WithLabelValues("no_pending").Inc()
		return err
	case errors.Is(err, ErrInvalidOTP):
		metrics.OTPVerifyAttemptsTotal.WithLabelValues("invalid").Inc()
		log.Warn().Str("mobile", mobile).Msg("Invalid OTP submitted")
		return err
	case err != nil:
		return err
	}

	metrics.OTPVerifyAttemptsTotal.WithLabelValues("success").Inc()
	log.Info().Str("mobile", mobile).Msg("OTP verified")
	return nil
}
