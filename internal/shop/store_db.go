package shop

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) TopSellers(ctx context.Context, p TopSellerParams) ([]TopSeller, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var out []TopSeller

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT p.id, p.name, SUM(oi.quantity) AS total_sold
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			JOIN products p ON p.id = oi.product_id
			WHERE o.created_at >= $1
			GROUP BY p.id, p.name
			ORDER BY total_sold DESC
			LIMIT $2
		`, p.Since(), p.Limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]TopSeller, 0, p.Limit)
		for rows.Next() {
			var ts TopSeller
			if err := rows.Scan(&ts.ProductID, &ts.ProductName, &ts.TotalSold); err != nil {
				return err
			}
			out = append(out, ts)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
