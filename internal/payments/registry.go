package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/su413/storefront-golang/internal/models"
)

// registryTTL is how long a payment record is kept. Gateways expire
// unpaid QR codes well before this.
const registryTTL = 24 * time.Hour

// Registry is the persisted payment store. Records live in redis keyed
// by payment id, so pending QR payments survive a process restart.
type Registry struct {
	client *redis.Client
}

func NewRegistry(client *redis.Client) *Registry {
	return &Registry{client: client}
}

func registryKey(paymentID string) string {
	return "payment:bakong:" + paymentID
}

// Save writes a payment record, stamping created/updated times.
func (r *Registry) Save(ctx context.Context, payment *models.Payment) error {
	now := time.Now()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now

	data, err := json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("encoding payment: %w", err)
	}
	if err := r.client.Set(ctx, registryKey(payment.PaymentID), data, registryTTL).Err(); err != nil {
		return fmt.Errorf("storing payment %s: %w", payment.PaymentID, err)
	}
	return nil
}

// Get reads a payment record by id.
func (r *Registry) Get(ctx context.Context, paymentID string) (*models.Payment, error) {
	data, err := r.client.Get(ctx, registryKey(paymentID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("fetching payment %s: %w", paymentID, err)
	}

	var payment models.Payment
	if err := json.Unmarshal([]byte(data), &payment); err != nil {
		return nil, fmt.Errorf("decoding payment %s: %w", paymentID, err)
	}
	return &payment, nil
}

// UpdateStatus rewrites a payment's status, keeping the rest of the
// record intact.
func (r *Registry) UpdateStatus(ctx context.Context, paymentID, status string) (*models.Payment, error) {
	payment, err := r.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	payment.Status = status
	if err := r.Save(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}
