package seed_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"ShopPulse/internal/seed"
	"ShopPulse/internal/shop"
)

func runSeeder(t *testing.T, sink *shop.MemStore, opts seed.Options) error {
	t.Helper()
	return seed.New(sink, zap.NewNop(), 1).Run(context.Background(), opts)
}

func TestSeeder_PopulatesRequestedCounts(t *testing.T) {
	ctx := context.Background()
	sink := shop.NewMemStore()

	opts := seed.Options{Orders: 20, Products: 10, Customers: 5, BatchSize: 7}
	if err := runSeeder(t, sink, opts); err != nil {
		t.Fatalf("run: %v", err)
	}

	if n, _ := sink.ProductCount(ctx); n != 10 {
		t.Fatalf("products=%d, want 10", n)
	}
	if n, _ := sink.CustomerCount(ctx); n != 5 {
		t.Fatalf("customers=%d, want 5", n)
	}
	if n := len(sink.Orders()); n != 20 {
		t.Fatalf("orders=%d, want 20", n)
	}
}

func TestSeeder_GeneratedRowsAreWellFormed(t *testing.T) {
	sink := shop.NewMemStore()

	opts := seed.Options{Orders: 30, Products: 5, Customers: 3, BatchSize: 10}
	if err := runSeeder(t, sink, opts); err != nil {
		t.Fatalf("run: %v", err)
	}

	itemsPerOrder := make(map[int64]int)
	for _, it := range sink.OrderItems() {
		if it.Quantity < 1 || it.Quantity > 5 {
			t.Fatalf("item quantity %d outside [1,5]", it.Quantity)
		}
		if it.ProductID == 0 || it.OrderID == 0 {
			t.Fatalf("item missing references: %+v", it)
		}
		itemsPerOrder[it.OrderID]++
	}

	for _, o := range sink.Orders() {
		if !o.Status.Valid() {
			t.Fatalf("order %d has invalid status %q", o.ID, o.Status)
		}
		if o.CustomerID == 0 {
			t.Fatalf("order %d has no customer", o.ID)
		}
		n := itemsPerOrder[o.ID]
		if n < 1 || n > 10 {
			t.Fatalf("order %d has %d items, want 1..10", o.ID, n)
		}
	}
}

func TestSeeder_SkipsPopulatedTables(t *testing.T) {
	ctx := context.Background()
	sink := shop.NewMemStore()

	opts := seed.Options{Orders: 5, Products: 4, Customers: 3, BatchSize: 10}
	if err := runSeeder(t, sink, opts); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := runSeeder(t, sink, opts); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if n, _ := sink.ProductCount(ctx); n != 4 {
		t.Fatalf("products=%d after rerun, want 4", n)
	}
	if n, _ := sink.CustomerCount(ctx); n != 3 {
		t.Fatalf("customers=%d after rerun, want 3", n)
	}
	// Orders accumulate on purpose; each run adds a fresh load.
	if n := len(sink.Orders()); n != 10 {
		t.Fatalf("orders=%d after rerun, want 10", n)
	}
}

func TestSeeder_OrdersRequireProductsAndCustomers(t *testing.T) {
	err := runSeeder(t, shop.NewMemStore(), seed.Options{Orders: 5, BatchSize: 10})
	if !errors.Is(err, seed.ErrNoProducts) {
		t.Fatalf("got %v, want ErrNoProducts", err)
	}

	sink := shop.NewMemStore()
	if err := runSeeder(t, sink, seed.Options{Products: 2, BatchSize: 10}); err != nil {
		t.Fatalf("seed products: %v", err)
	}
	err = runSeeder(t, sink, seed.Options{Orders: 5, Products: 2, BatchSize: 10})
	if !errors.Is(err, seed.ErrNoCustomers) {
		t.Fatalf("got %v, want ErrNoCustomers", err)
	}
}

func TestSeeder_RejectsBadOptions(t *testing.T) {
	if err := runSeeder(t, shop.NewMemStore(), seed.Options{BatchSize: 0}); err == nil {
		t.Fatalf("zero batch size accepted")
	}
	if err := runSeeder(t, shop.NewMemStore(), seed.Options{Orders: -1, BatchSize: 10}); err == nil {
		t.Fatalf("negative count accepted")
	}
}

func TestSeeder_FeedsTopSellers(t *testing.T) {
	ctx := context.Background()
	sink := shop.NewMemStore()

	opts := seed.Options{Orders: 50, Products: 5, Customers: 3, BatchSize: 25}
	if err := runSeeder(t, sink, opts); err != nil {
		t.Fatalf("run: %v", err)
	}

	// A full-year window sees every seeded order.
	rows, err := sink.TopSellers(ctx, shop.TopSellerParams{
		Now:   timeNow(t, sink),
		Days:  366,
		Limit: 10,
	})
	if err != nil {
		t.Fatalf("top sellers: %v", err)
	}
	if len(rows) == 0 {
		t.Fatalf("seeded store produced no top sellers")
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].TotalSold < rows[i].TotalSold {
			t.Fatalf("not sorted descending: %+v", rows)
		}
	}
}

// timeNow returns a reference time just past the newest seeded order, so the
// whole seed falls inside the test window.
func timeNow(t *testing.T, sink *shop.MemStore) time.Time {
	t.Helper()

	var latest time.Time
	for _, o := range sink.Orders() {
		if o.CreatedAt.After(latest) {
			latest = o.CreatedAt
		}
	}
	return latest.Add(time.Hour)
}
