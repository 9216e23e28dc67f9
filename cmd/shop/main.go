package main

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ShopPulse/internal/config"
	"ShopPulse/internal/shop"
	"ShopPulse/pkg/kit"
)

func main() {
	service := "shop"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	store, closeStore, err := buildStore(cfg, log)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer closeStore()

	cache, closeCache := buildCache(cfg, log)
	defer closeCache()

	reg := prometheus.NewRegistry()

	s := &shop.Server{
		Store:   store,
		Cache:   cache,
		TTL:     cfg.CacheTTL(),
		Log:     log,
		Metrics: shop.NewMetrics(reg),
	}

	var limiter *kit.IPRateLimiter
	if cfg.RateLimit > 0 {
		limiter = kit.NewIPRateLimiter(cfg.RateLimit, cfg.RateWindowSeconds)
	}

	h := shop.NewHandler(s, shop.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		Limiter:        limiter,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStore(cfg config.Config, log *zap.Logger) (shop.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory store")
		return shop.NewMemStore(), func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	log.Info("using postgres store")
	return shop.NewPostgresStore(db), func() { _ = db.Close() }, nil
}

func buildCache(cfg config.Config, log *zap.Logger) (shop.Cache, func()) {
	if cfg.RedisAddr == "" {
		log.Info("using in-process cache")
		return shop.NewMemCache(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	})

	log.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
	return shop.NewRedisCache(rdb), func() { _ = rdb.Close() }
}
