package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgate/internal/config"
)

func testSMSConfig(apiURL string) config.SMSConfig {
	return config.SMSConfig{
		APIURL:         apiURL,
		Username:       "user",
		APIKey:         "key",
		SenderID:       "MOBTIN",
		Route:          "OTP",
		TemplateID:     "1707176156392272496",
		EntityID:       "1701159099727478056",
		ComplianceName: "MOBTIN",
		CountryCode:    "91",
	}
}

func TestMDSGatewaySend(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte("SUCCESS: 1 message queued"))
	}))
	defer srv.Close()

	gw := NewSMSGateway(testSMSConfig(srv.URL), srv.Client())
	text := OTPMessage("123456", "MOBTIN")

	raw, err := gw.Send(context.Background(), "919876543210", text)
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS: 1 message queued", raw)

	assert.Equal(t, "user", got.Get("username"))
	assert.Equal(t, "key", got.Get("apikey"))
	assert.Equal(t, "MOBTIN", got.Get("senderid"))
	assert.Equal(t, "OTP", got.Get("route"))
	assert.Equal(t, "919876543210", got.Get("mobile"))
	assert.Equal(t, text, got.Get("text"))
	assert.Equal(t, "1707176156392272496", got.Get("TID"))
	assert.Equal(t, "1701159099727478056", got.Get("PEID"))
}

func TestMDSGatewayFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "error text", status: http.StatusOK, body: "ERROR: invalid template"},
		{name: "mixed case error", status: http.StatusOK, body: "Auth Error"},
		{name: "empty body", status: http.StatusOK, body: ""},
		{name: "whitespace body", status: http.StatusOK, body: " \n"},
		{name: "server error", status: http.StatusInternalServerError, body: "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			gw := NewSMSGateway(testSMSConfig(srv.URL), srv.Client())
			_, err := gw.Send(context.Background(), "919876543210", "hi")

			assert.ErrorIs(t, err, ErrGatewayUnreachable)
			var de *DeliveryError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.body, de.Response)
		})
	}
}

func TestMDSGatewayTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	gw := NewSMSGateway(testSMSConfig(srv.URL), http.DefaultClient)
	_, err := gw.Send(context.Background(), "919876543210", "hi")

	assert.ErrorIs(t, err, ErrGatewayUnreachable)
}
