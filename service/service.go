package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	models "order-management/model"
	"order-management/store"

	"github.com/shopspring/decimal"
)

type Service struct {
	store store.Store
	log   *slog.Logger
}

// NewService returns a Service over s. A nil logger falls back to slog.Default().
func NewService(s store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, log: logger}
}

func (s *Service) CreateCustomer(ctx context.Context, name, email string) (models.Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return models.Customer{}, badRequest("name required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.Customer{}, badRequest("valid email required")
	}

	_, err := s.store.FindCustomerByEmail(ctx, email)
	switch {
	case err == nil:
		return models.Customer{}, ErrEmailInUse
	case !errors.Is(err, store.ErrNotFound):
		return models.Customer{}, fmt.Errorf("find customer by email: %w", err)
	}

	c, err := s.store.CreateCustomer(ctx, name, email)
	if errors.Is(err, store.ErrDuplicate) {
		return models.Customer{}, ErrEmailInUse
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	s.log.Info("customer created", "customer_id", c.ID)
	return c, nil
}

func (s *Service) CreateProduct(ctx context.Context, name string, price decimal.Decimal, quantity int) (models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Product{}, badRequest("name required")
	}
	if price.IsNegative() {
		return models.Product{}, badRequest("price must be >= 0")
	}
	if quantity < 0 {
		return models.Product{}, badRequest("quantity must be >= 0")
	}

	_, err := s.store.FindProductByName(ctx, name)
	switch {
	case err == nil:
		return models.Product{}, ErrProductExists
	case !errors.Is(err, store.ErrNotFound):
		return models.Product{}, fmt.Errorf("find product by name: %w", err)
	}

	p, err := s.store.CreateProduct(ctx, name, price, quantity)
	if errors.Is(err, store.ErrDuplicate) {
		return models.Product{}, ErrProductExists
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.log.Info("product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *Service) UpdateStock(ctx context.Context, productID string, quantity int) error {
	if quantity < 0 {
		return badRequest("stock cannot be negative")
	}
	err := s.store.UpdateStock(ctx, productID, quantity)
	if errors.Is(err, store.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}

func (s *Service) GetStock(ctx context.Context, productID string) (int, error) {
	qty, err := s.store.GetStock(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get stock: %w", err)
	}
	return qty, nil
}
