package store

import (
	"context"
	"errors"

	models "order-management/model"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by single-record lookups that match nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique column (product name, customer email) already holds the value.
	ErrDuplicate = errors.New("already exists")
)

// QuantityUpdate asks UpdateQuantity to take Decrement units out of a
// product's stock. Decrement must be positive.
type QuantityUpdate struct {
	ProductID string
	Decrement int
}

type CustomerStore interface {
	CreateCustomer(ctx context.Context, name, email string) (models.Customer, error)
	FindCustomerByID(ctx context.Context, id string) (models.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (models.Customer, error)
}

type ProductStore interface {
	CreateProduct(ctx context.Context, name string, price decimal.Decimal, quantity int) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	FindProductByName(ctx context.Context, name string) (models.Product, error)

	// FindProductsByID returns the products that exist and, separately, the
	// requested ids that matched nothing.
	FindProductsByID(ctx context.Context, ids []string) (found []models.Product, missing []string, err error)

	// UpdateQuantity subtracts each update from the stored quantity and
	// returns the updated records. Ids with no record come back in missing.
	// If any product would drop below zero nothing is written and the error
	// wraps ErrInsufficientStock; a non-positive Decrement is rejected the
	// same way with ErrInvalidDecrement. Calling it twice decrements twice.
	UpdateQuantity(ctx context.Context, updates []QuantityUpdate) (updated []models.Product, missing []string, err error)

	UpdateStock(ctx context.Context, productID string, quantity int) error
	GetStock(ctx context.Context, productID string) (int, error)
}

type OrderStore interface {
	// CreateOrder writes the order and all of its items in one step.
	CreateOrder(ctx context.Context, order models.NewOrder) (models.Order, error)
	FindOrderByID(ctx context.Context, id string) (models.Order, error)
}

type Store interface {
	CustomerStore
	ProductStore
	OrderStore

	// RunInTx runs fn against a Store whose writes commit together when fn
	// returns nil and are discarded otherwise. Nested calls join the outer unit.
	RunInTx(ctx context.Context, fn func(Store) error) error

	Close() error
}
