package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BakongClient talks to the Bakong QR payment gateway. Requests are
// authenticated with a bearer API key and signed with an HMAC-SHA256
// over the canonical JSON payload (compact, keys sorted).
type BakongClient struct {
	APIURL      string
	MerchantID  string
	APIKey      string
	SecretKey   string
	CallbackURL string
	Client      *http.Client
}

func NewBakongClient(apiURL, merchantID, apiKey, secretKey, callbackURL string) *BakongClient {
	return &BakongClient{
		APIURL:      strings.TrimRight(apiURL, "/"),
		MerchantID:  merchantID,
		APIKey:      apiKey,
		SecretKey:   secretKey,
		CallbackURL: callbackURL,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Signature computes the HMAC-SHA256 hex digest over the canonical
// JSON encoding of data: compact, keys sorted, and no HTML escaping.
// The gateway signs the literal payload bytes, so `&`, `<` and `>`
// must not be rewritten to & etc.
func (b *BakongClient) Signature(data map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", fmt.Errorf("encoding signature payload: %w", err)
	}
	message := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	mac := hmac.New(sha256.New, []byte(b.SecretKey))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// VerifyCallback checks a webhook body against its X-Signature header
// using a constant-time comparison. The signature binds to the payload
// content: any tampered field invalidates it.
func (b *BakongClient) VerifyCallback(payload map[string]interface{}, signature string) bool {
	expected, err := b.Signature(payload)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}

// CreatePayment registers a payment request with the gateway and
// returns the gateway-assigned payment id.
func (b *BakongClient) CreatePayment(ctx context.Context, amount float64, currency, description string) (*CreateResponse, error) {
	payload := map[string]interface{}{
		"merchant_id":  b.MerchantID,
		"amount":       amount,
		"currency":     currency,
		"description":  description,
		"order_id":     GeneratePaymentID(),
		"callback_url": b.CallbackURL + "/bakong",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}

	signature, err := b.Signature(payload)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.APIURL+"/v1/payments/create", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)
	req.Header.Set("X-Signature", signature)

	data, err := b.do(req)
	if err != nil {
		return nil, err
	}

	paymentID, _ := data["payment_id"].(string)
	status, _ := data["status"].(string)
	return &CreateResponse{PaymentID: paymentID, Status: status, Raw: data}, nil
}

// GenerateQR fetches the QR code for a created payment.
func (b *BakongClient) GenerateQR(ctx context.Context, paymentID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.APIURL+"/v1/payments/qr/"+paymentID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	data, err := b.do(req)
	if err != nil {
		return "", err
	}

	qrCode, _ := data["qr_code"].(string)
	if qrCode == "" {
		return "", fmt.Errorf("gateway response had no qr_code")
	}
	return qrCode, nil
}

// PaymentStatus asks the gateway for a payment's current status.
func (b *BakongClient) PaymentStatus(ctx context.Context, paymentID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.APIURL+"/v1/payments/status/"+paymentID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	data, err := b.do(req)
	if err != nil {
		return "", err
	}

	status, _ := data["status"].(string)
	if status == "" {
		return "", fmt.Errorf("gateway response had no status")
	}
	return status, nil
}

func (b *BakongClient) do(req *http.Request) (map[string]interface{}, error) {
	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding gateway response: %w", err)
	}
	return data, nil
}

// GeneratePaymentID returns an opaque BKG-prefixed payment reference.
func GeneratePaymentID() string {
	return "BKG-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}
