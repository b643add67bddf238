package store

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrInsufficientStock returned when requested qty exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidDecrement returned by UpdateQuantity for a decrement <= 0.
	ErrInvalidDecrement = errors.New("decrement must be positive")
)

// UpdateStock sets the absolute stock for a product (admin operation).
func (s *PostgresStore) UpdateStock(ctx context.Context, productID string, quantity int) error {
	if quantity < 0 {
		return errors.New("stock cannot be negative")
	}
	res, err := s.q().ExecContext(ctx, `UPDATE products SET quantity = $1 WHERE id = $2`, quantity, productID)
	if err != nil {
		return err
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStock returns current stock for a product.
func (s *PostgresStore) GetStock(ctx context.Context, productID string) (int, error) {
	var stock int
	err := s.q().QueryRowContext(ctx, `SELECT quantity FROM products WHERE id = $1`, productID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return stock, nil
}
