package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	models "order-management/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore is a process-local Store. Every call holds one mutex, and
// RunInTx holds it for the whole callback and restores a snapshot on error.
type MemoryStore struct {
	mu   *sync.Mutex
	data *memoryData
	inTx bool

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

type memoryData struct {
	customers map[string]models.Customer
	products  map[string]models.Product
	orders    map[string]models.Order
}

func (d *memoryData) clone() memoryData {
	return memoryData{
		customers: maps.Clone(d.customers),
		products:  maps.Clone(d.products),
		orders:    maps.Clone(d.orders),
	}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		data: &memoryData{
			customers: map[string]models.Customer{},
			products:  map[string]models.Product{},
			orders:    map[string]models.Order{},
		},
		now: time.Now,
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&MemoryStore{mu: s.mu, data: s.data, inTx: true, now: s.now}); err != nil {
		*s.data = snapshot
		return err
	}
	return nil
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, name, email string) (models.Customer, error) {
	defer s.lock()()
	for _, c := range s.data.customers {
		if c.Email == email {
			return models.Customer{}, ErrDuplicate
		}
	}
	c := models.Customer{ID: uuid.NewString(), Name: name, Email: email, CreatedAt: s.now()}
	s.data.customers[c.ID] = c
	return c, nil
}

func (s *MemoryStore) FindCustomerByID(ctx context.Context, id string) (models.Customer, error) {
	defer s.lock()()
	c, ok := s.data.customers[id]
	if !ok {
		return models.Customer{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) FindCustomerByEmail(ctx context.Context, email string) (models.Customer, error) {
	defer s.lock()()
	for _, c := range s.data.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return models.Customer{}, ErrNotFound
}

func (s *MemoryStore) CreateProduct(ctx context.Context, name string, price decimal.Decimal, quantity int) (models.Product, error) {
	defer s.lock()()
	for _, p := range s.data.products {
		if p.Name == name {
			return models.Product{}, ErrDuplicate
		}
	}
	p := models.Product{ID: uuid.NewString(), Name: name, Price: price, Quantity: quantity, CreatedAt: s.now()}
	s.data.products[p.ID] = p
	return p, nil
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	defer s.lock()()
	out := make([]models.Product, 0, len(s.data.products))
	for _, p := range s.data.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) FindProductByName(ctx context.Context, name string) (models.Product, error) {
	defer s.lock()()
	for _, p := range s.data.products {
		if p.Name == name {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

func (s *MemoryStore) FindProductsByID(ctx context.Context, ids []string) ([]models.Product, []string, error) {
	defer s.lock()()
	found := []models.Product{}
	for _, id := range ids {
		p, ok := s.data.products[id]
		if !ok || slices.ContainsFunc(found, func(f models.Product) bool { return f.ID == id }) {
			continue
		}
		found = append(found, p)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, missingIDs(ids, found), nil
}

func (s *MemoryStore) UpdateQuantity(ctx context.Context, updates []QuantityUpdate) ([]models.Product, []string, error) {
	defer s.lock()()

	next := make(map[string]models.Product)
	var touched, missing []string
	for _, u := range updates {
		if u.Decrement <= 0 {
			return nil, nil, fmt.Errorf("product %s: %d: %w", u.ProductID, u.Decrement, ErrInvalidDecrement)
		}
		p, ok := next[u.ProductID]
		if !ok {
			p, ok = s.data.products[u.ProductID]
		}
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
		next[p.ID] = p
	}

	updated := make([]models.Product, 0, len(touched))
	for _, id := range touched {
		s.data.products[id] = next[id]
		updated = append(updated, next[id])
	}
	return updated, missing, nil
}

func (s *MemoryStore) UpdateStock(ctx context.Context, productID string, quantity int) error {
	if quantity < 0 {
		return errors.New("stock cannot be negative")
	}
	defer s.lock()()
	p, ok := s.data.products[productID]
	if !ok {
		return ErrNotFound
	}
	p.Quantity = quantity
	s.data.products[productID] = p
	return nil
}

func (s *MemoryStore) GetStock(ctx context.Context, productID string) (int, error) {
	defer s.lock()()
	p, ok := s.data.products[productID]
	if !ok {
		return 0, ErrNotFound
	}
	return p.Quantity, nil
}

func (s *MemoryStore) CreateOrder(ctx context.Context, no models.NewOrder) (models.Order, error) {
	defer s.lock()()
	if _, ok := s.data.customers[no.Customer.ID]; !ok {
		return models.Order{}, fmt.Errorf("customer %s: %w", no.Customer.ID, ErrNotFound)
	}
	order := models.Order{
		ID:         uuid.NewString(),
		CustomerID: no.Customer.ID,
		Customer:   no.Customer,
		Items:      make([]models.OrderItem, 0, len(no.Items)),
		CreatedAt:  s.now(),
	}
	for _, it := range no.Items {
		if _, ok := s.data.products[it.ProductID]; !ok {
			return models.Order{}, fmt.Errorf("product %s: %w", it.ProductID, ErrNotFound)
		}
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	s.data.orders[order.ID] = order
	order.Items = slices.Clone(order.Items)
	return order, nil
}

func (s *MemoryStore) FindOrderByID(ctx context.Context, id string) (models.Order, error) {
	defer s.lock()()
	o, ok := s.data.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	o.Items = slices.Clone(o.Items)
	return o, nil
}
