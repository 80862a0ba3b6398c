package formflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"leadgate/internal/models"
)

// APIError is an error envelope returned by the lead gate server.
type APIError struct {
	StatusCode int
	Message    string
	Debug      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Client calls the OTP and lead endpoints. It keeps the session cookie
// between calls, so one Client serves one visitor.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// IssueOTP posts the mobile number as form data, the way the landing page does.
func (c *Client) IssueOTP(ctx context.Context, mobile string) (*models.APIResponse, error) {
	form := url.Values{"mobile": {mobile}}
	return c.do(ctx, "/otp-issue", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func (c *Client) VerifyOTP(ctx context.Context, code string) (*models.APIResponse, error) {
	form := url.Values{"otp": {code}}
	return c.do(ctx, "/otp-verify", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func (c *Client) SubmitLead(ctx context.Context, v Variant, req *models.LeadRequest) (*models.APIResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, v.SubmitPath, "application/json", bytes.NewReader(body))
}

func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader) (*models.APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	var out models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}

	if out.Status != models.StatusSuccess {
		return &out, &APIError{StatusCode: resp.StatusCode, Message: out.Message, Debug: out.Debug}
	}
	return &out, nil
}
