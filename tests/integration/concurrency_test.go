package integration

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentRefunds fires overlapping refund requests against one
// transaction and verifies the reservation check never lets the refunded
// total overshoot the original amount.
func TestConcurrentRefunds(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	payResp := app.submitPayment(t, "100.00", nil)
	require.Equal(t, http.StatusCreated, payResp.StatusCode)
	txID := dataOf(t, payResp)["id"].(string)

	// 8 concurrent refunds of 30 against a balance of 100: at most 3 can
	// reserve, the rest must be rejected before any gateway call.
	concurrency := 8

	var wg sync.WaitGroup
	var succeeded atomic.Int64
	var rejected atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := app.postJSON(t, "/api/v1/payments/"+txID+"/refunds", map[string]any{
				"amount": "30.00",
			})
			defer resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusCreated:
				succeeded.Add(1)
			case http.StatusBadRequest:
				var envelope map[string]any
				if assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope)) {
					assert.Equal(t, "PAY_004", envelope["error_code"])
				}
				rejected.Add(1)
			default:
				t.Errorf("unexpected status %d", resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 3, succeeded.Load())
	assert.EqualValues(t, int64(concurrency-3), rejected.Load())
	assert.EqualValues(t, 3, app.stripe.refundCalls.Load())

	// Ledger agrees: 90 refunded out of 100, transaction partially refunded.
	listResp, err := http.Get(app.server.URL + "/api/v1/payments/" + txID + "/refunds")
	require.NoError(t, err)
	defer listResp.Body.Close()
	var listEnvelope struct {
		Data []struct {
			Amount string `json:"amount"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listEnvelope))

	total := decimal.Zero
	for _, rf := range listEnvelope.Data {
		require.Equal(t, "succeeded", rf.Status)
		amt, err := decimal.NewFromString(rf.Amount)
		require.NoError(t, err)
		total = total.Add(amt)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(90)), "refunded total %s", total)

	getResp, err := http.Get(app.server.URL + "/api/v1/payments/" + txID)
	require.NoError(t, err)
	assert.Equal(t, "partially_refunded", dataOf(t, getResp)["status"])
}

// TestConcurrentWebhookRedelivery delivers the same signed event from many
// goroutines at once and verifies exactly one delivery is applied.
func TestConcurrentWebhookRedelivery(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	payResp := app.submitPayment(t, "120.00", nil)
	require.Equal(t, http.StatusCreated, payResp.StatusCode)
	txID := dataOf(t, payResp)["id"].(string)

	payload := []byte(`{"id":"evt_race_1","type":"charge.captured","data":{"object":{"id":"ch_ok"}}}`)
	sig := stripeSign(payload)

	concurrency := 10

	var wg sync.WaitGroup
	var applied atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := app.deliverStripeWebhook(t, payload, sig)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var envelope struct {
				Data struct {
					Disposition string `json:"disposition"`
				} `json:"data"`
			}
			if !assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope)) {
				return
			}
			if envelope.Data.Disposition == "applied" {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, applied.Load())
	assert.Equal(t, 1, app.eventRepo.count())

	getResp, err := http.Get(app.server.URL + "/api/v1/payments/" + txID)
	require.NoError(t, err)
	assert.Equal(t, "captured", dataOf(t, getResp)["status"])
}
