package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teampot/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postBillingEvent(t *testing.T, app *fiber.App, signature string, payload map[string]any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/billing/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Billing-Signature", signature)
	}
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	return resp
}

func TestBillingEvent_BadSignature(t *testing.T) {
	_, app := newTestServer(t)

	resp := postBillingEvent(t, app, "whsec_wrong", map[string]any{
		"event": "charge.success",
		"data":  map[string]any{"customer_id": "CUS_missing"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postBillingEvent(t, app, "", map[string]any{
		"event": "charge.success",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBillingEvent_UnknownEventIgnored(t *testing.T) {
	_, app := newTestServer(t)

	resp := postBillingEvent(t, app, testBillingSecret, map[string]any{
		"event": "customer.updated",
		"data":  map[string]any{"customer_id": "CUS_whatever"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "event ignored", body["message"])
}

func TestBillingEvent_ChargeSuccessActivates(t *testing.T) {
	srv, app := newTestServer(t)
	u := seedUser(t, srv)
	require.NoError(t, srv.db.Create(&models.Subscription{
		UserID:             u.ID,
		Status:             models.SubscriptionStatusPending,
		ExternalCustomerID: "CUS_test_123",
	}).Error)

	resp := postBillingEvent(t, app, testBillingSecret, map[string]any{
		"event": "charge.success",
		"data": map[string]any{
			"reference":    "ref_001",
			"amount_cents": 999,
			"customer_id":  "CUS_test_123",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sub models.Subscription
	require.NoError(t, srv.db.Where("user_id = ?", u.ID).First(&sub).Error)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.True(t, sub.CurrentPeriodEnd.After(time.Now()))
}

func TestBillingEvent_PaymentFailed(t *testing.T) {
	srv, app := newTestServer(t)
	u := seedUser(t, srv)
	now := time.Now()
	end := now.Add(30 * 24 * time.Hour)
	require.NoError(t, srv.db.Create(&models.Subscription{
		UserID:             u.ID,
		Status:             models.SubscriptionStatusActive,
		CurrentPeriodStart: &now,
		CurrentPeriodEnd:   &end,
		ExternalCustomerID: "CUS_test_456",
	}).Error)

	resp := postBillingEvent(t, app, testBillingSecret, map[string]any{
		"event": "invoice.payment_failed",
		"data":  map[string]any{"customer_id": "CUS_test_456"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sub models.Subscription
	require.NoError(t, srv.db.Where("user_id = ?", u.ID).First(&sub).Error)
	assert.Equal(t, models.SubscriptionStatusFailed, sub.Status)
}

func TestBillingEvent_UnknownCustomer(t *testing.T) {
	_, app := newTestServer(t)

	resp := postBillingEvent(t, app, testBillingSecret, map[string]any{
		"event": "charge.success",
		"data":  map[string]any{"customer_id": "CUS_missing"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
