package store

import (
	"context"
	"database/sql"
	"errors"

	models "order-management/model"

	"github.com/google/uuid"
)

func (s *PostgresStore) CreateCustomer(ctx context.Context, name, email string) (models.Customer, error) {
	c := models.Customer{ID: uuid.NewString(), Name: name, Email: email}
	err := s.q().QueryRowContext(ctx,
		`INSERT INTO customers (id, name, email) VALUES ($1, $2, $3) RETURNING created_at`,
		c.ID, c.Name, c.Email,
	).Scan(&c.CreatedAt)
	if isUniqueViolation(err) {
		return models.Customer{}, ErrDuplicate
	}
	if err != nil {
		return models.Customer{}, err
	}
	return c, nil
}

func (s *PostgresStore) FindCustomerByID(ctx context.Context, id string) (models.Customer, error) {
	return s.findCustomer(ctx, `SELECT id, name, email, created_at FROM customers WHERE id = $1`, id)
}

func (s *PostgresStore) FindCustomerByEmail(ctx context.Context, email string) (models.Customer, error) {
	return s.findCustomer(ctx, `SELECT id, name, email, created_at FROM customers WHERE email = $1`, email)
}

func (s *PostgresStore) findCustomer(ctx context.Context, query string, arg string) (models.Customer, error) {
	var c models.Customer
	err := s.q().QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, ErrNotFound
	}
	if err != nil {
		return models.Customer{}, err
	}
	return c, nil
}
