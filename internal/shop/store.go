package shop

import (
	"context"
	"errors"
	"time"
)

// Status is the lifecycle state of an Order. Transitions are driven by
// order-management flows outside this service; we only read them.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// Statuses lists every valid order status.
var Statuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int64  `json:"stock"`
}

type Customer struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderItem struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// TopSeller is one row of the top-sellers aggregation. The json tags are the
// wire schema; do not rename them.
type TopSeller struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	TotalSold   int64  `json:"total_sold"`
}

const (
	// DefaultWindowDays and DefaultLimit are the server-fixed parameters of
	// the public endpoint.
	DefaultWindowDays = 30
	DefaultLimit      = 10
)

var ErrInvalidWindow = errors.New("window days and limit must be positive")

// TopSellerParams bounds the aggregation. Now is the reference time and must
// be set explicitly; it is evaluated once per request, never inside the query.
type TopSellerParams struct {
	Now   time.Time
	Days  int
	Limit int
}

func (p TopSellerParams) Validate() error {
	if p.Days <= 0 || p.Limit <= 0 {
		return ErrInvalidWindow
	}
	return nil
}

// Since is the inclusive lower bound of the trailing window.
func (p TopSellerParams) Since() time.Time {
	return p.Now.Add(-time.Duration(p.Days) * 24 * time.Hour)
}

type Store interface {
	// TopSellers returns at most p.Limit products ordered by total quantity
	// sold within the window, descending. Order among products with equal
	// totals is unspecified. An empty window yields an empty slice, not an
	// error. Days or Limit <= 0 yields ErrInvalidWindow.
	TopSellers(ctx context.Context, p TopSellerParams) ([]TopSeller, error)
	Ping(ctx context.Context) error
}
