package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ShopPulse/internal/shop"
)

type Options struct {
	Orders    int
	Products  int
	Customers int
	BatchSize int
}

func (o Options) Validate() error {
	if o.Orders < 0 || o.Products < 0 || o.Customers < 0 {
		return errors.New("counts must not be negative")
	}
	if o.BatchSize <= 0 {
		return errors.New("batch size must be positive")
	}
	return nil
}

var (
	ErrNoProducts  = errors.New("no products to attach orders to")
	ErrNoCustomers = errors.New("no customers to attach orders to")
)

// Seeder fills the store with synthetic rows for load testing. Existing
// products and customers are counted against the requested totals; orders
// always get created on top of whatever is there.
type Seeder struct {
	sink  Sink
	log   *zap.Logger
	faker *gofakeit.Faker
}

// New builds a Seeder. Pass seed 0 for a random generator state.
func New(sink Sink, log *zap.Logger, seed uint64) *Seeder {
	return &Seeder{
		sink:  sink,
		log:   log,
		faker: gofakeit.New(seed),
	}
}

func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	if err := s.seedProducts(ctx, opts); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if err := s.seedCustomers(ctx, opts); err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}
	if err := s.seedOrders(ctx, opts); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context, opts Options) error {
	existing, err := s.sink.ProductCount(ctx)
	if err != nil {
		return err
	}
	if existing >= opts.Products {
		s.log.Info("products already populated", zap.Int("existing", existing))
		return nil
	}

	toCreate := opts.Products - existing
	batch := make([]shop.Product, 0, opts.BatchSize)

	for i := 0; i < toCreate; i++ {
		batch = append(batch, shop.Product{
			Name:        s.faker.ProductName(),
			Description: s.faker.Paragraph(1, 3, 8, " "),
			PriceCents:  int64(s.faker.Price(10, 1000) * 100),
			Stock:       int64(s.faker.Number(0, 1000)),
		})

		if len(batch) == opts.BatchSize {
			if err := s.sink.InsertProducts(ctx, batch); err != nil {
				return err
			}
			s.log.Info("products batch created", zap.Int("done", i+1), zap.Int("total", toCreate))
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.sink.InsertProducts(ctx, batch); err != nil {
			return err
		}
	}

	s.log.Info("products created", zap.Int("count", toCreate))
	return nil
}

func (s *Seeder) seedCustomers(ctx context.Context, opts Options) error {
	existing, err := s.sink.CustomerCount(ctx)
	if err != nil {
		return err
	}
	if existing >= opts.Customers {
		s.log.Info("customers already populated", zap.Int("existing", existing))
		return nil
	}

	toCreate := opts.Customers - existing
	seen := make(map[string]struct{}, toCreate)
	batch := make([]shop.Customer, 0, opts.BatchSize)

	for i := 0; i < toCreate; i++ {
		username := s.faker.Username()
		if _, dup := seen[username]; dup {
			// Faker recycles usernames at volume; a uuid suffix keeps the
			// unique constraint happy.
			username = username + "_" + uuid.NewString()[:8]
		}
		seen[username] = struct{}{}

		batch = append(batch, shop.Customer{
			Username:  username,
			Email:     s.faker.Email(),
			FirstName: s.faker.FirstName(),
			LastName:  s.faker.LastName(),
			Phone:     s.faker.Phone(),
			Address:   s.faker.Address().Address,
			CreatedAt: time.Now().UTC(),
		})

		if len(batch) == opts.BatchSize {
			if err := s.sink.InsertCustomers(ctx, batch); err != nil {
				return err
			}
			s.log.Info("customers batch created", zap.Int("done", i+1), zap.Int("total", toCreate))
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.sink.InsertCustomers(ctx, batch); err != nil {
			return err
		}
	}

	s.log.Info("customers created", zap.Int("count", toCreate))
	return nil
}

const (
	maxItemsPerOrder = 10
	maxItemQuantity  = 5
)

func (s *Seeder) seedOrders(ctx context.Context, opts Options) error {
	if opts.Orders == 0 {
		return nil
	}

	productIDs, err := s.sink.ProductIDs(ctx)
	if err != nil {
		return err
	}
	if len(productIDs) == 0 {
		return ErrNoProducts
	}

	customerIDs, err := s.sink.CustomerIDs(ctx)
	if err != nil {
		return err
	}
	if len(customerIDs) == 0 {
		return ErrNoCustomers
	}

	now := time.Now().UTC()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	created := 0
	for created < opts.Orders {
		n := opts.Orders - created
		if n > opts.BatchSize {
			n = opts.BatchSize
		}

		orders := make([]shop.Order, 0, n)
		for i := 0; i < n; i++ {
			orders = append(orders, shop.Order{
				CustomerID: customerIDs[s.faker.Number(0, len(customerIDs)-1)],
				Status:     shop.Statuses[s.faker.Number(0, len(shop.Statuses)-1)],
				CreatedAt:  s.faker.DateRange(yearStart, now),
			})
		}

		ids, err := s.sink.InsertOrders(ctx, orders)
		if err != nil {
			return err
		}

		items := make([]shop.OrderItem, 0, n*maxItemsPerOrder/2)
		for _, orderID := range ids {
			for j := s.faker.Number(1, maxItemsPerOrder); j > 0; j-- {
				items = append(items, shop.OrderItem{
					OrderID:   orderID,
					ProductID: productIDs[s.faker.Number(0, len(productIDs)-1)],
					Quantity:  int64(s.faker.Number(1, maxItemQuantity)),
				})
			}
		}
		if err := s.sink.InsertOrderItems(ctx, items); err != nil {
			return err
		}

		created += n
		s.log.Info("orders batch created",
			zap.Int("done", created),
			zap.Int("total", opts.Orders),
			zap.Int("items", len(items)),
		)
	}

	return nil
}
