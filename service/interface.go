package service

import (
	"context"

	models "order-management/model"

	"github.com/shopspring/decimal"
)

type ServiceInterface interface {
	CreateCustomer(ctx context.Context, name, email string) (models.Customer, error)
	CreateProduct(ctx context.Context, name string, price decimal.Decimal, quantity int) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateStock(ctx context.Context, productID string, quantity int) error
	GetStock(ctx context.Context, productID string) (int, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
}
