package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	models "order-management/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, price, quantity, created_at`

// CreateProduct inserts a product and returns it with its generated id.
func (s *PostgresStore) CreateProduct(ctx context.Context, name string, price decimal.Decimal, quantity int) (models.Product, error) {
	p := models.Product{ID: uuid.NewString(), Name: name, Price: price, Quantity: quantity}
	err := s.q().QueryRowContext(ctx,
		`INSERT INTO products (id, name, price, quantity) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		p.ID, p.Name, p.Price, p.Quantity,
	).Scan(&p.CreatedAt)
	if isUniqueViolation(err) {
		return models.Product{}, ErrDuplicate
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
}

func (s *PostgresStore) FindProductByName(ctx context.Context, name string) (models.Product, error) {
	var p models.Product
	err := s.q().QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE name = $1`, name,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (s *PostgresStore) FindProductsByID(ctx context.Context, ids []string) ([]models.Product, []string, error) {
	found, err := s.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, nil, err
	}
	return found, missingIDs(ids, found), nil
}

func (s *PostgresStore) UpdateQuantity(ctx context.Context, updates []QuantityUpdate) (updated []models.Product, missing []string, err error) {
	err = s.RunInTx(ctx, func(tx Store) error {
		var err error
		updated, missing, err = tx.(*PostgresStore).updateQuantity(ctx, updates)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, missing, nil
}

// updateQuantity must run inside a transaction: the FOR UPDATE lock is what
// keeps two orders from both spending the same stock.
func (s *PostgresStore) updateQuantity(ctx context.Context, updates []QuantityUpdate) ([]models.Product, []string, error) {
	ids := make([]string, 0, len(updates))
	for _, u := range updates {
		if u.Decrement <= 0 {
			return nil, nil, fmt.Errorf("product %s: %d: %w", u.ProductID, u.Decrement, ErrInvalidDecrement)
		}
		ids = append(ids, u.ProductID)
	}

	// ORDER BY id so concurrent callers lock rows in the same order
	current, err := s.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, pq.Array(ids))
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]models.Product, len(current))
	for _, p := range current {
		byID[p.ID] = p
	}

	var missing []string
	var touched []string
	for _, u := range updates {
		p, ok := byID[u.ProductID]
		if !ok {
			if !slices.Contains(missing, u.ProductID) {
				missing = append(missing, u.ProductID)
			}
			continue
		}
		if p.Quantity-u.Decrement < 0 {
			return nil, nil, fmt.Errorf("product %s has %d, need %d: %w", p.ID, p.Quantity, u.Decrement, ErrInsufficientStock)
		}
		if !slices.Contains(touched, p.ID) {
			touched = append(touched, p.ID)
		}
		p.Quantity -= u.Decrement
		byID[p.ID] = p
	}
	if len(touched) == 0 {
		return nil, missing, nil
	}

	stmt, err := s.q().PrepareContext(ctx, `UPDATE products SET quantity = $1 WHERE id = $2`)
	if err != nil {
		return nil, nil, err
	}
	defer stmt.Close()

	updated := make([]models.Product, 0, len(touched))
	for _, id := range touched {
		p := byID[id]
		if _, err := stmt.ExecContext(ctx, p.Quantity, p.ID); err != nil {
			return nil, nil, err
		}
		updated = append(updated, p)
	}
	return updated, missing, nil
}

func (s *PostgresStore) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := s.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// missingIDs returns the ids with no matching product, in request order and
// without repeats.
func missingIDs(ids []string, found []models.Product) []string {
	have := make(map[string]struct{}, len(found))
	for _, p := range found {
		have[p.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := have[id]; ok {
			continue
		}
		if !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	return missing
}
