package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"leadgate/internal/models"
)

// LeadSink forwards an enriched lead to the spreadsheet webhook. The returned
// string is the sink's body, kept only for diagnostics. Transport failures
// and HTTP error statuses wrap ErrSinkUnreachable.
type LeadSink interface {
	Forward(ctx context.Context, payload *models.LeadPayload) (string, error)
}

type webhookSink struct {
	url    string
	client *http.Client
}

// NewLeadSink returns a sink that POSTs JSON to url.
func NewLeadSink(url string, client *http.Client) LeadSink {
	return &webhookSink{url: url, client: client}
}

func (s *webhookSink) Forward(ctx context.Context, payload *models.LeadPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSinkUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: error reading response: %w", ErrSinkUnreachable, err)
	}

	// An HTTP error status means the row was not written.
	if resp.StatusCode >= http.StatusBadRequest {
		return string(body), fmt.Errorf("%w: sink returned status %d", ErrSinkUnreachable, resp.StatusCode)
	}

	log.Info().
		Str("form_source", string(payload.FormSource)).
		Int("status", resp.StatusCode).
		Msg("Lead forwarded to sink")
	return string(body), nil
}
