package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"ShopPulse/internal/shop"
)

//go:embed schema.sql
var schemaSQL string

const (
	batchTimeout = 30 * time.Second
	pgUniqueCode = "23505"
)

var ErrDuplicateCustomer = errors.New("duplicate customer username")

type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// InitSchema applies the embedded DDL. Idempotent.
func (s *PostgresSink) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

func (s *PostgresSink) ProductCount(ctx context.Context) (int, error) {
	return s.count(ctx, "products")
}

func (s *PostgresSink) CustomerCount(ctx context.Context) (int, error) {
	return s.count(ctx, "customers")
}

func (s *PostgresSink) count(ctx context.Context, table string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	return n, err
}

func (s *PostgresSink) ProductIDs(ctx context.Context) ([]int64, error) {
	return s.ids(ctx, "products")
}

func (s *PostgresSink) CustomerIDs(ctx context.Context) ([]int64, error) {
	return s.ids(ctx, "customers")
}

func (s *PostgresSink) ids(ctx context.Context, table string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT id FROM %s ORDER BY id ASC", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int64, 0, 1024)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *PostgresSink) InsertProducts(ctx context.Context, ps []shop.Product) error {
	return s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO products (name, description, price_cents, stock)
			VALUES ($1, $2, $3, $4)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range ps {
			if _, err := stmt.ExecContext(ctx, p.Name, p.Description, p.PriceCents, p.Stock); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresSink) InsertCustomers(ctx context.Context, cs []shop.Customer) error {
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO customers (username, email, first_name, last_name, phone, address, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range cs {
			_, err := stmt.ExecContext(ctx,
				c.Username, c.Email, c.FirstName, c.LastName, c.Phone, c.Address, c.CreatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicateCustomer, err)
	}
	return err
}

func (s *PostgresSink) InsertOrders(ctx context.Context, os []shop.Order) ([]int64, error) {
	ids := make([]int64, 0, len(os))

	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO orders (customer_id, status, created_at)
			VALUES ($1, $2, $3)
			RETURNING id
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, o := range os {
			var id int64
			if err := stmt.QueryRowContext(ctx, o.CustomerID, string(o.Status), o.CreatedAt).Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *PostgresSink) InsertOrderItems(ctx context.Context, its []shop.OrderItem) error {
	return s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity)
			VALUES ($1, $2, $3)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, it := range its {
			if _, err := stmt.ExecContext(ctx, it.OrderID, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresSink) inTx(parent context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(parent, batchTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
