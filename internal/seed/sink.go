package seed

import (
	"context"

	"ShopPulse/internal/shop"
)

// Sink is where generated rows land. shop.MemStore satisfies it for tests;
// PostgresSink is the real one.
type Sink interface {
	ProductCount(ctx context.Context) (int, error)
	CustomerCount(ctx context.Context) (int, error)
	ProductIDs(ctx context.Context) ([]int64, error)
	CustomerIDs(ctx context.Context) ([]int64, error)

	InsertProducts(ctx context.Context, ps []shop.Product) error
	InsertCustomers(ctx context.Context, cs []shop.Customer) error
	// InsertOrders returns the assigned order ids, in input order.
	InsertOrders(ctx context.Context, os []shop.Order) ([]int64, error)
	InsertOrderItems(ctx context.Context, its []shop.OrderItem) error
}
