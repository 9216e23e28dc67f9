package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"ShopPulse/internal/seed"
	"ShopPulse/pkg/kit"
)

func main() {
	orders := flag.Int("orders", 100000, "number of orders to create")
	products := flag.Int("products", 500, "number of products to create")
	customers := flag.Int("customers", 10000, "number of customers to create")
	batchSize := flag.Int("batch-size", 1000, "rows per insert batch")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres dsn")
	initSchema := flag.Bool("init-schema", false, "apply the schema before seeding")
	randSeed := flag.Uint64("seed", 0, "faker seed, 0 for random")
	flag.Parse()

	log := kit.NewLogger("seed")
	defer func() { _ = log.Sync() }()

	if *dsn == "" {
		log.Fatal("postgres dsn required, set -dsn or DATABASE_URL")
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatal("ping database", zap.Error(err))
	}

	sink := seed.NewPostgresSink(db)

	if *initSchema {
		if err := sink.InitSchema(ctx); err != nil {
			log.Fatal("init schema", zap.Error(err))
		}
		log.Info("schema applied")
	}

	opts := seed.Options{
		Orders:    *orders,
		Products:  *products,
		Customers: *customers,
		BatchSize: *batchSize,
	}

	start := time.Now()
	if err := seed.New(sink, log, *randSeed).Run(ctx, opts); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}

	log.Info("seeding completed",
		zap.Int("orders", opts.Orders),
		zap.Int("products", opts.Products),
		zap.Int("customers", opts.Customers),
		zap.Duration("took", time.Since(start)),
	)
}
