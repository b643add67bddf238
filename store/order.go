package store

import (
	"context"
	"database/sql"
	"errors"

	models "order-management/model"

	"github.com/google/uuid"
)

// CreateOrder inserts the order and its items in one transaction. When
// called from inside RunInTx it joins the caller's transaction.
func (s *PostgresStore) CreateOrder(ctx context.Context, no models.NewOrder) (models.Order, error) {
	var order models.Order
	err := s.RunInTx(ctx, func(tx Store) error {
		var err error
		order, err = tx.(*PostgresStore).createOrder(ctx, no)
		return err
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *PostgresStore) createOrder(ctx context.Context, no models.NewOrder) (models.Order, error) {
	order := models.Order{
		ID:         uuid.NewString(),
		CustomerID: no.Customer.ID,
		Customer:   no.Customer,
		Items:      make([]models.OrderItem, 0, len(no.Items)),
	}

	if err := s.q().QueryRowContext(ctx,
		`INSERT INTO orders (id, customer_id) VALUES ($1, $2) RETURNING created_at`,
		order.ID, order.CustomerID,
	).Scan(&order.CreatedAt); err != nil {
		return models.Order{}, err
	}

	stmt, err := s.q().PrepareContext(ctx,
		`INSERT INTO order_items (id, order_id, product_id, price, quantity) VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return models.Order{}, err
	}
	defer stmt.Close()

	for _, it := range no.Items {
		item := models.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
		if _, err := stmt.ExecContext(ctx, item.ID, item.OrderID, item.ProductID, item.Price, item.Quantity); err != nil {
			return models.Order{}, err
		}
		order.Items = append(order.Items, item)
	}
	return order, nil
}

// FindOrderByID loads an order with its customer and items.
func (s *PostgresStore) FindOrderByID(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	err := s.q().QueryRowContext(ctx, `
		SELECT o.id, o.customer_id, o.created_at, c.id, c.name, c.email, c.created_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, id).Scan(&o.ID, &o.CustomerID, &o.CreatedAt, &o.Customer.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	rows, err := s.q().QueryContext(ctx,
		`SELECT id, order_id, product_id, price, quantity FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return models.Order{}, err
	}
	defer rows.Close()

	o.Items = []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Price, &it.Quantity); err != nil {
			return models.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return models.Order{}, err
	}
	return o, nil
}
