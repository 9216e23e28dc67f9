package shop

import (
	"context"
	"sort"
	"sync"
)

// MemStore keeps the relational state in mutex-guarded maps and runs the
// aggregation as an in-memory reduction. It backs tests and the no-database
// dev mode, and doubles as a seeding sink.
type MemStore struct {
	mu        sync.RWMutex
	products  map[int64]Product
	customers map[int64]Customer
	orders    map[int64]Order
	items     []OrderItem

	nextProduct  int64
	nextCustomer int64
	nextOrder    int64
	nextItem     int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		products:  map[int64]Product{},
		customers: map[int64]Customer{},
		orders:    map[int64]Order{},
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) TopSellers(ctx context.Context, p TopSellerParams) ([]TopSeller, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	since := p.Since()

	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[int64]int64)
	for _, it := range s.items {
		o, ok := s.orders[it.OrderID]
		if !ok || o.CreatedAt.Before(since) {
			continue
		}
		totals[it.ProductID] += it.Quantity
	}

	out := make([]TopSeller, 0, len(totals))
	for pid, total := range totals {
		out = append(out, TopSeller{
			ProductID:   pid,
			ProductName: s.products[pid].Name,
			TotalSold:   total,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TotalSold > out[j].TotalSold })
	if len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

// InsertProducts assigns ids to products with a zero ID and stores them.
func (s *MemStore) InsertProducts(ctx context.Context, ps []Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range ps {
		if p.ID == 0 {
			s.nextProduct++
			p.ID = s.nextProduct
		}
		s.products[p.ID] = p
	}
	return nil
}

func (s *MemStore) InsertCustomers(ctx context.Context, cs []Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range cs {
		if c.ID == 0 {
			s.nextCustomer++
			c.ID = s.nextCustomer
		}
		s.customers[c.ID] = c
	}
	return nil
}

func (s *MemStore) InsertOrders(ctx context.Context, os []Order) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(os))
	for _, o := range os {
		if o.ID == 0 {
			s.nextOrder++
			o.ID = s.nextOrder
		}
		s.orders[o.ID] = o
		ids = append(ids, o.ID)
	}
	return ids, nil
}

func (s *MemStore) InsertOrderItems(ctx context.Context, its []OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range its {
		if it.ID == 0 {
			s.nextItem++
			it.ID = s.nextItem
		}
		s.items = append(s.items, it)
	}
	return nil
}

func (s *MemStore) ProductCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

func (s *MemStore) CustomerCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.customers), nil
}

func (s *MemStore) ProductIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.products))
	for id := range s.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemStore) CustomerIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.customers))
	for id := range s.customers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Orders returns a snapshot of all orders, for tests.
func (s *MemStore) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OrderItems returns a snapshot of all order items, for tests.
func (s *MemStore) OrderItems() []OrderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]OrderItem(nil), s.items...)
}
