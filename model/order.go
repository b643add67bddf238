package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItem is a line of an order. Price is the product price at the time
// the order was placed.
type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customer_id"`
	Customer   Customer    `json:"customer"`
	Items      []OrderItem `json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Total sums price * quantity over the order items.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// NewOrderItem is an order line before it is persisted.
type NewOrderItem struct {
	ProductID string
	Price     decimal.Decimal
	Quantity  int
}

// NewOrder is the input to an order store create.
type NewOrder struct {
	Customer Customer
	Items    []NewOrderItem
}

// ProductQuantity is one requested line of an order request.
type ProductQuantity struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID string            `json:"customer_id"`
	Products   []ProductQuantity `json:"products"`
}
