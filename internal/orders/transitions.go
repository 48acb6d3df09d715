package orders

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/su413/storefront-golang/internal/catalog"
	"github.com/su413/storefront-golang/internal/models"
)

// Action is an admin-driven order status transition.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionProcess Action = "process"
	ActionShip    Action = "ship"
	ActionDeliver Action = "deliver"
	ActionCancel  Action = "cancel"
)

// allowedSources is the full transition table: for each action, the
// statuses an order may be in for the action to apply. cancelled,
// rejected and delivered are terminal.
var allowedSources = map[Action]map[string]bool{
	ActionApprove: {models.OrderStatusPending: true},
	ActionReject:  {models.OrderStatusPending: true},
	ActionProcess: {models.OrderStatusApproved: true},
	ActionShip: {
		models.OrderStatusApproved:   true,
		models.OrderStatusProcessing: true,
	},
	ActionDeliver: {models.OrderStatusShipped: true},
	ActionCancel: {
		models.OrderStatusPending:    true,
		models.OrderStatusApproved:   true,
		models.OrderStatusProcessing: true,
	},
}

// targetStatus maps each action to the status it produces.
var targetStatus = map[Action]string{
	ActionApprove: models.OrderStatusApproved,
	ActionReject:  models.OrderStatusRejected,
	ActionProcess: models.OrderStatusProcessing,
	ActionShip:    models.OrderStatusShipped,
	ActionDeliver: models.OrderStatusDelivered,
	ActionCancel:  models.OrderStatusCancelled,
}

// CanTransition reports whether action may be applied to an order in
// the given status.
func CanTransition(status string, action Action) bool {
	return allowedSources[action][status]
}

// restocksStock reports whether the action puts item quantities back
// onto product stock.
func restocksStock(action Action) bool {
	return action == ActionReject || action == ActionCancel
}

// TransitionOptions carries the optional form fields submitted with an
// admin transition.
type TransitionOptions struct {
	AdminNotes     string // approve/reject note; reject requires one (the reason)
	TrackingNumber string // ship only; appended to admin notes
}

// Transition applies an admin action to an order. An action attempted
// outside its allowed source status fails with ErrInvalidTransition and
// leaves the order untouched. reject and cancel restore every item's
// quantity onto its product's stock in the same transaction.
func (l *Ledger) Transition(ctx context.Context, orderID int64, action Action, opts TransitionOptions) (*models.Order, error) {
	newStatus, ok := targetStatus[action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	if action == ActionReject && opts.AdminNotes == "" {
		return nil, ErrRejectReasonRequired
	}

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		status     string
		adminNotes sql.NullString
	)
	err = tx.QueryRow("SELECT status, admin_notes FROM orders WHERE id = ? FOR UPDATE", orderID).
		Scan(&status, &adminNotes)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("locking order: %w", err)
	}

	if !CanTransition(status, action) {
		return nil, fmt.Errorf("%w: cannot %s an order in status %q", ErrInvalidTransition, action, status)
	}

	now := time.Now()

	// Build the admin notes the transition leaves behind.
	notes := adminNotes.String
	if opts.AdminNotes != "" {
		notes = opts.AdminNotes
	}
	if action == ActionShip && opts.TrackingNumber != "" {
		if notes != "" {
			notes += "\n\nTracking Number: " + opts.TrackingNumber
		} else {
			notes = "Tracking Number: " + opts.TrackingNumber
		}
	}

	query := "UPDATE orders SET status = ?, admin_notes = ?, updated_at = ?"
	args := []interface{}{newStatus, nullIfEmpty(notes), now}
	switch action {
	case ActionApprove:
		query += ", approved_at = ?"
		args = append(args, now)
	case ActionShip:
		query += ", shipped_at = ?"
		args = append(args, now)
	case ActionDeliver:
		query += ", delivered_at = ?"
		args = append(args, now)
	}
	query += " WHERE id = ?"
	args = append(args, orderID)

	if _, err := tx.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("updating order status: %w", err)
	}

	if restocksStock(action) {
		if err := l.restoreOrderStock(tx, orderID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transition: %w", err)
	}

	return l.GetOrder(orderID)
}

// restoreOrderStock returns each item's quantity to its product. Items
// whose product was deleted since purchase are skipped.
func (l *Ledger) restoreOrderStock(tx *sql.Tx, orderID int64) error {
	rows, err := tx.Query(
		"SELECT product_id, quantity FROM order_items WHERE order_id = ? AND product_id IS NOT NULL",
		orderID,
	)
	if err != nil {
		return fmt.Errorf("fetching items for restock: %w", err)
	}
	defer rows.Close()

	type restock struct {
		productID int64
		quantity  int
	}
	var restocks []restock
	for rows.Next() {
		var r restock
		if err := rows.Scan(&r.productID, &r.quantity); err != nil {
			return fmt.Errorf("scanning restock item: %w", err)
		}
		restocks = append(restocks, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, r := range restocks {
		if err := catalog.RestoreStock(tx, r.productID, r.quantity); err != nil {
			return err
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
