package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	models "order-management/model"
	"order-management/store"
)

// CreateOrder validates the request against the customer and product
// records, takes the requested quantities out of stock and records the
// order. Every check runs before anything is written; the stock update and
// the order insert then commit together.
func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.Order, error) {
	order, err := s.createOrder(ctx, req)
	if err != nil {
		if appErr, ok := IsAppError(err); ok {
			s.log.Warn("order rejected", "customer_id", req.CustomerID, "reason", appErr.Message)
		} else {
			s.log.Error("order failed", "customer_id", req.CustomerID, "error", err)
		}
		return models.Order{}, err
	}
	s.log.Info("order created",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"items", len(order.Items),
		"total", order.Total().String(),
	)
	return order, nil
}

func (s *Service) createOrder(ctx context.Context, req models.CreateOrderRequest) (models.Order, error) {
	customer, err := s.store.FindCustomerByID(ctx, req.CustomerID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, ErrInvalidCustomer
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("find customer: %w", err)
	}

	if len(req.Products) == 0 {
		return models.Order{}, ErrEmptyOrder
	}
	for _, p := range req.Products {
		if p.Quantity <= 0 {
			return models.Order{}, ErrInvalidQuantity
		}
	}

	// a product listed twice is ordered once with the summed quantity
	var ids []string
	requested := make(map[string]int, len(req.Products))
	for _, p := range req.Products {
		sum, seen := requested[p.ID]
		if !seen {
			ids = append(ids, p.ID)
		}
		if sum > math.MaxInt-p.Quantity {
			return models.Order{}, ErrInvalidQuantity
		}
		requested[p.ID] = sum + p.Quantity
	}

	found, missing, err := s.store.FindProductsByID(ctx, ids)
	if err != nil {
		return models.Order{}, fmt.Errorf("find products: %w", err)
	}
	if len(missing) > 0 || len(found) != len(ids) {
		return models.Order{}, ErrInvalidProduct
	}
	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	updates := make([]store.QuantityUpdate, 0, len(ids))
	items := make([]models.NewOrderItem, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return models.Order{}, ErrInvalidProduct
		}
		qty := requested[id]
		if p.Quantity-qty < 0 {
			return models.Order{}, ErrInsufficientStock
		}
		updates = append(updates, store.QuantityUpdate{ProductID: id, Decrement: qty})
		items = append(items, models.NewOrderItem{ProductID: id, Price: p.Price, Quantity: qty})
	}

	var order models.Order
	err = s.store.RunInTx(ctx, func(tx store.Store) error {
		_, missing, err := tx.UpdateQuantity(ctx, updates)
		if errors.Is(err, store.ErrInsufficientStock) {
			// stock moved between the read above and the locked read
			return ErrInsufficientStock
		}
		if errors.Is(err, store.ErrInvalidDecrement) {
			return ErrInvalidQuantity
		}
		if err != nil {
			return fmt.Errorf("update quantity: %w", err)
		}
		if len(missing) > 0 {
			return ErrInvalidProduct
		}

		order, err = tx.CreateOrder(ctx, models.NewOrder{Customer: customer, Items: items})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (models.Order, error) {
	o, err := s.store.FindOrderByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("find order: %w", err)
	}
	return o, nil
}
