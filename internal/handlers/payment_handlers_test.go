package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/su413/storefront-golang/internal/payments"
)

func callbackRouter() (*payments.BakongClient, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	bakong := payments.NewBakongClient("", "MERCHANT-1", "api-key", "callback-secret", "")

	h := &Handlers{Bakong: bakong}
	router := gin.New()
	router.POST("/v1/payment/callback/bakong", h.BakongCallback)
	return bakong, router
}

func postCallback(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/payment/callback/bakong", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Signature", signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBakongCallbackRejectsMissingSignature(t *testing.T) {
	_, router := callbackRouter()

	body, _ := json.Marshal(gin.H{"payment_id": "BKG-AB12CD34EF56", "status": "completed"})
	w := postCallback(router, body, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid signature")
}

func TestBakongCallbackRejectsTamperedPayload(t *testing.T) {
	bakong, router := callbackRouter()

	// Sign the genuine payload, then deliver a tampered one under the
	// original signature. Verification must fail before any state is
	// touched (the handler has no payment registry wired here at all).
	genuine := map[string]interface{}{"payment_id": "BKG-AB12CD34EF56", "status": "pending"}
	signature, err := bakong.Signature(genuine)
	require.NoError(t, err)

	tampered, _ := json.Marshal(gin.H{"payment_id": "BKG-AB12CD34EF56", "status": "completed"})
	w := postCallback(router, tampered, signature)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid signature")
}

func TestBakongCallbackRejectsBadJSON(t *testing.T) {
	_, router := callbackRouter()

	w := postCallback(router, []byte("{not json"), "whatever")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBakongCallbackRequiresPaymentFields(t *testing.T) {
	bakong, router := callbackRouter()

	payload := map[string]interface{}{"status": "completed"}
	signature, err := bakong.Signature(payload)
	require.NoError(t, err)

	body, _ := json.Marshal(payload)
	w := postCallback(router, body, signature)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "payment_id")
}
