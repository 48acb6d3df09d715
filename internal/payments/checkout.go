package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CheckoutClient talks to the sandbox checkout REST API. Every order
// creation performs a fresh OAuth client-credentials exchange first;
// access tokens are not cached across calls.
type CheckoutClient struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Client       *http.Client
}

func NewCheckoutClient(baseURL, clientID, clientSecret string) *CheckoutClient {
	return &CheckoutClient{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// fetchAccessToken performs the client-credentials exchange.
func (c *CheckoutClient) fetchAccessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.ClientID, c.ClientSecret)

	data, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("exchanging client credentials: %w", err)
	}

	token, _ := data["access_token"].(string)
	if token == "" {
		return "", fmt.Errorf("token response had no access_token")
	}
	return token, nil
}

// CreatePayment creates a checkout order for the given amount.
func (c *CheckoutClient) CreatePayment(ctx context.Context, amount float64, currency, description string) (*CreateResponse, error) {
	token, err := c.fetchAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         fmt.Sprintf("%.2f", amount),
				},
				"description": description,
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v2/checkout/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	data, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("creating checkout order: %w", err)
	}

	paymentID, _ := data["id"].(string)
	status, _ := data["status"].(string)
	return &CreateResponse{PaymentID: paymentID, Status: status, Raw: data}, nil
}

// PaymentStatus fetches a checkout order's current status.
func (c *CheckoutClient) PaymentStatus(ctx context.Context, paymentID string) (string, error) {
	token, err := c.fetchAccessToken(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/v2/checkout/orders/"+paymentID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	data, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("fetching checkout order: %w", err)
	}

	status, _ := data["status"].(string)
	if status == "" {
		return "", fmt.Errorf("checkout response had no status")
	}
	return status, nil
}

func (c *CheckoutClient) do(req *http.Request) (map[string]interface{}, error) {
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("checkout API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
