package formflow

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"leadgate/internal/models"
)

// ShadowRecord is the unvalidated snapshot sent on every OTP and submit click.
type ShadowRecord struct {
	models.LeadFields
	FormSource models.FormSource `json:"form_source"`
	models.Attribution
}

// ShadowNotifier receives best-effort copies of form values. It has no
// result and never affects the gated flow.
type ShadowNotifier interface {
	Notify(record ShadowRecord)
}

type NopShadowNotifier struct{}

func (NopShadowNotifier) Notify(ShadowRecord) {}

// WebhookShadowNotifier posts each record as JSON from its own goroutine.
type WebhookShadowNotifier struct {
	url    string
	client *http.Client
	wg     sync.WaitGroup
}

func NewWebhookShadowNotifier(url string, timeout time.Duration) *WebhookShadowNotifier {
	return &WebhookShadowNotifier{url: url, client: &http.Client{Timeout: timeout}}
}

func (n *WebhookShadowNotifier) Notify(record ShadowRecord) {
	body, err := json.Marshal(record)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to encode shadow record")
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, n.url, bytes.NewReader(body))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			log.Debug().Err(err).Str("form_source", string(record.FormSource)).Msg("Shadow notification not delivered")
			return
		}
		resp.Body.Close()
	}()
}

// Wait blocks until every in-flight notification has finished.
func (n *WebhookShadowNotifier) Wait() {
	n.wg.Wait()
}
