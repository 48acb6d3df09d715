package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutCreatePayment(t *testing.T) {
	tokenCalls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			tokenCalls++
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			require.Equal(t, "client-id", user)
			require.Equal(t, "client-secret", pass)
			require.NoError(t, r.ParseForm())
			require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

			json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "token-abc"})

		case "/v2/checkout/orders":
			require.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))

			var payload map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "CAPTURE", payload["intent"])

			units := payload["purchase_units"].([]interface{})
			amount := units[0].(map[string]interface{})["amount"].(map[string]interface{})
			assert.Equal(t, "USD", amount["currency_code"])
			assert.Equal(t, "204.98", amount["value"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":     "5O190127TN364715T",
				"status": "CREATED",
			})

		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewCheckoutClient(srv.URL, "client-id", "client-secret")

	resp, err := c.CreatePayment(context.Background(), 204.98, "USD", "Order ORD-AB12CD34")
	require.NoError(t, err)

	assert.Equal(t, "5O190127TN364715T", resp.PaymentID)
	assert.Equal(t, "CREATED", resp.Status)
	assert.Equal(t, 1, tokenCalls, "each call performs exactly one token exchange")
}

func TestCheckoutPaymentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "token-abc"})
		case "/v2/checkout/orders/5O190127TN364715T":
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "COMPLETED"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewCheckoutClient(srv.URL, "client-id", "client-secret")

	status, err := c.PaymentStatus(context.Background(), "5O190127TN364715T")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", status)
}

func TestCheckoutRejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewCheckoutClient(srv.URL, "client-id", "wrong-secret")

	_, err := c.CreatePayment(context.Background(), 10, "USD", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
