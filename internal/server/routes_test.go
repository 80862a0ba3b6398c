package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgate/internal/config"
	"leadgate/internal/models"
)

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

type upstreams struct {
	mu      sync.Mutex
	sms     []url.Values
	leads   []models.LeadPayload
	gateway *httptest.Server
	sheet   *httptest.Server
}

func (u *upstreams) lastCode(t *testing.T) string {
	sms := u.sent()
	require.NotEmpty(t, sms, "no SMS was sent")
	m := codePattern.FindStringSubmatch(sms[len(sms)-1].Get("text"))
	require.Len(t, m, 2)
	return m[1]
}

func (u *upstreams) sent() []url.Values {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]url.Values(nil), u.sms...)
}

func (u *upstreams) forwarded() []models.LeadPayload {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]models.LeadPayload(nil), u.leads...)
}

func newUpstreams(t *testing.T) *upstreams {
	u := &upstreams{}
	u.gateway = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.sms = append(u.sms, r.URL.Query())
		u.mu.Unlock()
		io.WriteString(w, "Message submitted successfully")
	}))
	u.sheet = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p models.LeadPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err == nil {
			u.mu.Lock()
			u.leads = append(u.leads, p)
			u.mu.Unlock()
		}
		io.WriteString(w, `{"result":"success"}`)
	}))
	t.Cleanup(func() {
		u.gateway.Close()
		u.sheet.Close()
	})
	return u
}

func newTestServer(t *testing.T, u *upstreams) *httptest.Server {
	cfg := &config.Config{
		SessionKey:        "test-session-key-0123456789abcdef",
		SessionName:       "leadgate_session",
		SessionMaxAge:     30 * time.Minute,
		SheetWebhookURL:   u.sheet.URL,
		HTTPClientTimeout: 5 * time.Second,
		SMS: config.SMSConfig{
			APIURL:         u.gateway.URL,
			Username:       "user",
			APIKey:         "key",
			SenderID:       "ACMEIN",
			Route:          "OTP",
			TemplateID:     "tid",
			EntityID:       "peid",
			ComplianceName: "ACME",
			CountryCode:    "91",
		},
	}

	s, err := newServer(cfg, prometheus.NewRegistry())
	require.NoError(t, err)

	ts := httptest.NewServer(s.RegisterRoutes())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, c *http.Client, u string, body any) (int, models.APIResponse) {
	b, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := c.Post(u, "application/json", strings.NewReader(string(b)))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out models.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealthRoute(t *testing.T) {
	ts := newTestServer(t, newUpstreams(t))

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, "memory", stats["store"])
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t, newUpstreams(t))

	_, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestVerifyThenSubmitBanner(t *testing.T) {
	u := newUpstreams(t)
	ts := newTestServer(t, u)
	c := newClient(t)

	status, res := postJSON(t, c, ts.URL+"/otp-issue", map[string]string{"mobile": "9876543210"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.Equal(t, "OTP sent successfully to 919876543210", res.Message)
	sms := u.sent()
	require.Len(t, sms, 1)
	assert.Equal(t, "919876543210", sms[0].Get("mobile"))
	assert.Equal(t, "tid", sms[0].Get("TID"))

	status, res = postJSON(t, c, ts.URL+"/otp-verify", map[string]string{"otp": "000000x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid OTP", res.Message)

	status, res = postJSON(t, c, ts.URL+"/otp-verify", map[string]string{"otp": u.lastCode(t)})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OTP verified successfully", res.Message)

	lead := map[string]string{
		"fullName":   "Asha",
		"email":      "asha@example.com",
		"phone":      "9876543210",
		"utm_source": "google",
		"gclid":      "abc123",
	}
	status, res = postJSON(t, c, ts.URL+"/lead-submit-banner", lead)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Form submitted successfully", res.Message)

	leads := u.forwarded()
	require.Len(t, leads, 1)
	assert.Equal(t, models.FormSourceBanner, leads[0].FormSource)
	assert.Equal(t, "Asha", leads[0].FullName)
	assert.Equal(t, "google", leads[0].UTMSource)
	assert.Equal(t, "abc123", leads[0].GCLID)
	assert.NotEmpty(t, leads[0].UserIP)

	// The session is consumed by the forward.
	status, res = postJSON(t, c, ts.URL+"/lead-submit-banner", lead)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Please verify your phone number before submitting.", res.Message)
	assert.Len(t, u.forwarded(), 1)
}

func TestSubmitWithoutVerification(t *testing.T) {
	u := newUpstreams(t)
	ts := newTestServer(t, u)

	for _, path := range []string{"/lead-submit-banner", "/lead-submit-brochure", "/lead-submit-popup"} {
		status, res := postJSON(t, newClient(t), ts.URL+path, map[string]string{"fullName": "x"})
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.Equal(t, models.StatusError, res.Status, path)
	}
	assert.Empty(t, u.forwarded())
}

func TestVerifyWithoutIssue(t *testing.T) {
	ts := newTestServer(t, newUpstreams(t))

	status, res := postJSON(t, newClient(t), ts.URL+"/otp-verify", map[string]string{"otp": "123456"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No OTP found. Please request a new one.", res.Message)
}

func TestIssueRequiresMobile(t *testing.T) {
	u := newUpstreams(t)
	ts := newTestServer(t, u)

	status, res := postJSON(t, newClient(t), ts.URL+"/otp-issue", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Mobile number is required", res.Message)
	assert.Empty(t, u.sent())
}

func TestIssueAcceptsFormEncoding(t *testing.T) {
	u := newUpstreams(t)
	ts := newTestServer(t, u)

	resp, err := newClient(t).PostForm(ts.URL+"/otp-issue", url.Values{"mobile": {"919876543210"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	sms := u.sent()
	require.Len(t, sms, 1)
	assert.Equal(t, "919876543210", sms[0].Get("mobile"))
}

func TestNewServerRequiresSessionKey(t *testing.T) {
	_, err := newServer(&config.Config{}, prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestBlankLeadKeepsSession(t *testing.T) {
	u := newUpstreams(t)
	ts := newTestServer(t, u)
	c := newClient(t)

	status, _ := postJSON(t, c, ts.URL+"/otp-issue", map[string]string{"mobile": "9876543210"})
	require.Equal(t, http.StatusOK, status)
	status, _ = postJSON(t, c, ts.URL+"/otp-verify", map[string]string{"otp": u.lastCode(t)})
	require.Equal(t, http.StatusOK, status)

	status, res := postJSON(t, c, ts.URL+"/lead-submit-brochure", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No data received", res.Message)
	assert.Empty(t, u.forwarded())

	status, _ = postJSON(t, c, ts.URL+"/lead-submit-brochure", map[string]string{"fullName": "Asha", "phone": "9876543210"})
	assert.Equal(t, http.StatusOK, status)

	leads := u.forwarded()
	require.Len(t, leads, 1)
	assert.Equal(t, models.FormSourceBrochure, leads[0].FormSource)
}
