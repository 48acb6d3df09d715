package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBakongClient(apiURL string) *BakongClient {
	return NewBakongClient(apiURL, "MERCHANT-1", "test-api-key", "test-secret", "http://localhost:8080/v1/payment/callback")
}

func TestSignatureIsDeterministic(t *testing.T) {
	b := testBakongClient("")

	payload := map[string]interface{}{
		"payment_id": "BKG-AB12CD34EF56",
		"status":     "completed",
		"amount":     204.98,
	}

	first, err := b.Signature(payload)
	require.NoError(t, err)
	second, err := b.Signature(payload)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Regexp(t, `^[0-9a-f]{64}$`, first)
}

func TestSignatureDoesNotEscapeHTMLCharacters(t *testing.T) {
	b := testBakongClient("")

	payload := map[string]interface{}{
		"description": "Keyboards & <mice> for \"devs\"",
		"payment_id":  "BKG-AB12CD34EF56",
	}

	got, err := b.Signature(payload)
	require.NoError(t, err)

	// The gateway signs the literal compact JSON, with & < > intact.
	want := hmacHex(t, "test-secret",
		`{"description":"Keyboards & <mice> for \"devs\"","payment_id":"BKG-AB12CD34EF56"}`)
	assert.Equal(t, want, got)
	assert.True(t, b.VerifyCallback(payload, want))
}

func hmacHex(t *testing.T, secret, message string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCallback(t *testing.T) {
	b := testBakongClient("")

	payload := map[string]interface{}{
		"payment_id": "BKG-AB12CD34EF56",
		"status":     "completed",
		"amount":     204.98,
	}
	signature, err := b.Signature(payload)
	require.NoError(t, err)

	assert.True(t, b.VerifyCallback(payload, signature))

	// A tampered field invalidates the original signature.
	payload["amount"] = 1.00
	assert.False(t, b.VerifyCallback(payload, signature),
		"signature must not survive payload tampering")

	// Re-signing the tampered payload with the shared secret passes
	// again: only the secret holder can produce valid signatures.
	resigned, err := b.Signature(payload)
	require.NoError(t, err)
	assert.True(t, b.VerifyCallback(payload, resigned))

	// Wrong secret fails even on an untouched payload.
	other := NewBakongClient("", "MERCHANT-1", "test-api-key", "other-secret", "")
	assert.False(t, other.VerifyCallback(payload, resigned))
}

func TestCreatePayment(t *testing.T) {
	var gotSignature string
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payments/create", r.URL.Path)
		require.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		gotSignature = r.Header.Get("X-Signature")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"payment_id": "BKG-AB12CD34EF56",
			"status":     "pending",
		})
	}))
	defer srv.Close()

	b := testBakongClient(srv.URL)

	resp, err := b.CreatePayment(context.Background(), 204.98, "USD", "Order ORD-AB12CD34")
	require.NoError(t, err)

	assert.Equal(t, "BKG-AB12CD34EF56", resp.PaymentID)
	assert.Equal(t, "pending", resp.Status)

	// The request was signed over the exact payload it carried.
	expected, err := b.Signature(gotPayload)
	require.NoError(t, err)
	assert.Equal(t, expected, gotSignature)

	assert.Equal(t, "MERCHANT-1", gotPayload["merchant_id"])
	assert.Equal(t, "http://localhost:8080/v1/payment/callback/bakong", gotPayload["callback_url"])
}

func TestGenerateQR(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/qr/BKG-AB12CD34EF56", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{"qr_code": "data:image/png;base64,AAAA"})
	}))
	defer srv.Close()

	b := testBakongClient(srv.URL)

	qr, err := b.GenerateQR(context.Background(), "BKG-AB12CD34EF56")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", qr)
}

func TestPaymentStatusGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	b := testBakongClient(srv.URL)

	_, err := b.PaymentStatus(context.Background(), "BKG-MISSING")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGeneratePaymentIDFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.Regexp(t, `^BKG-[0-9A-F]{12}$`, GeneratePaymentID())
	}
}
