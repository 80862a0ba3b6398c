package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"leadgate/internal/config"
)

// otpTemplate is the DLT-registered text. It must match the registration
// byte for byte, including spacing and punctuation.
const otpTemplate = "Dear Customer, %s is your OTP for Login and registration. OTPs are SECRET, Do not disclose it to anyone %s"

// SMSGateway delivers a text message and returns the gateway's raw response.
type SMSGateway interface {
	Send(ctx context.Context, mobile, text string) (string, error)
}

type mdsGateway struct {
	cfg    config.SMSConfig
	client *http.Client
}

// NewSMSGateway returns a client for the MDS query-parameter SMS API.
func NewSMSGateway(cfg config.SMSConfig, client *http.Client) SMSGateway {
	return &mdsGateway{cfg: cfg, client: client}
}

// OTPMessage renders the compliance template for code.
func OTPMessage(code, complianceName string) string {
	return fmt.Sprintf(otpTemplate, code, complianceName)
}

func (g *mdsGateway) Send(ctx context.Context, mobile, text string) (string, error) {
	params := url.Values{}
	params.Set("username", g.cfg.Username)
	params.Set("apikey", g.cfg.APIKey)
	params.Set("senderid", g.cfg.SenderID)
	params.Set("route", g.cfg.Route)
	params.Set("mobile", mobile)
	params.Set("text", text)
	params.Set("TID", g.cfg.TemplateID)
	params.Set("PEID", g.cfg.EntityID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", &DeliveryError{Reason: "error creating request", Err: err}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &DeliveryError{Reason: "Failed to connect to SMS gateway", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &DeliveryError{Reason: "error reading gateway response", Err: err}
	}
	raw := string(body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return raw, &DeliveryError{Reason: fmt.Sprintf("SMS gateway returned status %d", resp.StatusCode), Response: raw}
	}

	// MDS answers in plain text; an empty body or any mention of "error"
	// means the message was not queued.
	if strings.TrimSpace(raw) == "" || strings.Contains(strings.ToLower(raw), "error") {
		return raw, &DeliveryError{Reason: "SMS gateway rejected the request", Response: raw}
	}

	log.Info().Str("mobile", mobile).Msg("SMS accepted by gateway")
	return raw, nil
}
