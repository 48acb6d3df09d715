package catalog

import (
	"database/sql"
	"fmt"
	"time"
)

// DecrementStock atomically subtracts quantity from a product's stock
// inside the caller's transaction. The WHERE guard refuses to take the
// count below zero; that surfaces as ErrInsufficientStock.
func DecrementStock(tx *sql.Tx, productID int64, quantity int) error {
	res, err := tx.Exec(
		"UPDATE products SET stock_quantity = stock_quantity - ?, updated_at = ? WHERE id = ? AND stock_quantity >= ?",
		quantity, time.Now(), productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrementing stock for product %d: %w", productID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// RestoreStock adds quantity back onto a product's stock inside the
// caller's transaction. Used when an order is rejected or cancelled.
func RestoreStock(tx *sql.Tx, productID int64, quantity int) error {
	_, err := tx.Exec(
		"UPDATE products SET stock_quantity = stock_quantity + ?, updated_at = ? WHERE id = ?",
		quantity, time.Now(), productID,
	)
	if err != nil {
		return fmt.Errorf("restoring stock for product %d: %w", productID, err)
	}
	return nil
}
