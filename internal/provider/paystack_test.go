package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scholarpay/config"
	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paystackConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		Enabled:       true,
		BaseURL:       baseURL,
		APIKey:        "pk_test",
		WebhookSecret: "ps_secret",
		Timeout:       2 * time.Second,
		Currencies:    []string{"USD", "NGN"},
		Methods:       []string{"card", "bank_transfer"},
	}
}

func TestPaystack_Submit_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/charge", r.URL.Path)
		fmt.Fprint(w, `{"status":true,"data":{"reference":"ref_1","status":"success"}}`)
	}))
	defer srv.Close()

	p := NewPaystack(paystackConfig(srv.URL))
	out := p.Submit(context.Background(), submitReq("75.00"))

	assert.Equal(t, ports.OutcomeSuccess, out.Result)
	assert.Equal(t, "ref_1", out.ProviderTransactionID)
	assert.Equal(t, domain.StatusSucceeded, out.Status)
}

func TestPaystack_Submit_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":true,"data":{"reference":"ref_2","status":"failed","gateway_response":"Insufficient Funds"}}`)
	}))
	defer srv.Close()

	p := NewPaystack(paystackConfig(srv.URL))
	out := p.Submit(context.Background(), submitReq("75.00"))

	assert.Equal(t, ports.OutcomeDeclined, out.Result)
	assert.Equal(t, "Insufficient Funds", out.Reason)
}

func TestPaystack_Submit_TransientOn429(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"status":false,"message":"rate limited"}`)
	}))
	defer srv.Close()

	p := NewPaystack(paystackConfig(srv.URL))
	out := p.Submit(context.Background(), submitReq("75.00"))

	assert.Equal(t, ports.OutcomeTransientFailure, out.Result)
	assert.Equal(t, "rate limited", out.Reason)
}

func TestPaystack_FetchStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref_1", r.URL.Path)
		fmt.Fprint(w, `{"status":true,"data":{"reference":"ref_1","status":"success"}}`)
	}))
	defer srv.Close()

	p := NewPaystack(paystackConfig(srv.URL))
	status, err := p.FetchStatus(context.Background(), "ref_1")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSucceeded, status)
}

func signPaystack(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystack_VerifySignature(t *testing.T) {
	p := NewPaystack(paystackConfig("http://unused"))
	payload := []byte(`{"event":"charge.success"}`)

	assert.True(t, p.VerifySignature(payload, signPaystack("ps_secret", payload)))
	assert.False(t, p.VerifySignature(payload, signPaystack("other", payload)))
	assert.False(t, p.VerifySignature(payload, ""))
	assert.False(t, p.VerifySignature(nil, "deadbeef"))
}

func TestPaystack_TranslateEvent(t *testing.T) {
	p := NewPaystack(paystackConfig("http://unused"))

	tests := []struct {
		name     string
		payload  string
		wantType domain.CanonicalEventType
	}{
		{
			"charge success settles funds",
			`{"id":"evt_1","event":"charge.success","data":{"reference":"ref_1"}}`,
			domain.EventCaptured,
		},
		{
			"charge failed",
			`{"id":"evt_2","event":"charge.failed","data":{"reference":"ref_1","gateway_response":"Declined"}}`,
			domain.EventFailed,
		},
		{
			"refund processed",
			`{"id":"evt_3","event":"refund.processed","data":{"reference":"ref_1","amount":"20.00"}}`,
			domain.EventRefunded,
		},
		{
			"dispute created",
			`{"id":"evt_4","event":"charge.dispute.create","data":{"reference":"ref_1"}}`,
			domain.EventDisputed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := p.TranslateEvent([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, evt.Type)
			assert.Equal(t, "ref_1", evt.ProviderTransactionID)
		})
	}

	t.Run("missing event id", func(t *testing.T) {
		_, err := p.TranslateEvent([]byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`))
		assert.Error(t, err)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := p.TranslateEvent([]byte(`{"id":"evt_9","event":"subscription.create","data":{"reference":"ref_1"}}`))
		assert.Error(t, err)
	})
}
