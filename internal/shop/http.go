package shop

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"ShopPulse/pkg/kit"
)

type Server struct {
	Store   Store
	Cache   Cache
	TTL     time.Duration
	Log     *zap.Logger
	Metrics *Metrics

	group singleflight.Group
	now   func() time.Time
}

func (s *Server) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/top-sellers", s.topSellers)
	r.Get("/top-sellers/", s.topSellers)

	return r
}

func (s *Server) topSellers(w http.ResponseWriter, r *http.Request) {
	key := CacheKey(DefaultWindowDays, DefaultLimit)

	rows, ok, err := s.Cache.Get(r.Context(), key)
	if err != nil {
		// Cache trouble never fails the request; fall through to the store.
		if s.Log != nil {
			s.Log.Warn("cache get failed", zap.Error(err), zap.String("key", key))
		}
		s.Metrics.lookup(lookupError)
	} else if ok {
		s.Metrics.lookup(lookupHit)
		if s.Log != nil {
			s.Log.Info("top sellers served", zap.String("source", "cache"), zap.Int("rows", len(rows)))
		}
		s.respond(w, rows)
		return
	} else {
		s.Metrics.lookup(lookupMiss)
	}

	// Concurrent misses share one aggregation per key. The computation runs
	// detached from this request's cancellation so an early hangup cannot
	// poison the shared flight.
	ctx := context.WithoutCancel(r.Context())
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.computeAndCache(ctx, key)
	})
	if err != nil {
		if isTimeoutErr(err) {
			kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
			return
		}
		if errors.Is(err, ErrInvalidWindow) {
			kit.WriteError(w, r, http.StatusBadRequest, "invalid window", nil)
			return
		}
		if s.Log != nil {
			s.Log.Error("top sellers query failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	rows = v.([]TopSeller)
	if s.Log != nil {
		s.Log.Info("top sellers served", zap.String("source", "store"), zap.Int("rows", len(rows)))
	}
	s.respond(w, rows)
}

func (s *Server) computeAndCache(ctx context.Context, key string) ([]TopSeller, error) {
	p := TopSellerParams{
		Now:   s.clock(),
		Days:  DefaultWindowDays,
		Limit: DefaultLimit,
	}

	rows, err := s.Store.TopSellers(ctx, p)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []TopSeller{}
	}

	if err := s.Cache.Set(ctx, key, rows, s.TTL); err != nil {
		if s.Log != nil {
			s.Log.Warn("cache set failed", zap.Error(err), zap.String("key", key))
		}
	}
	return rows, nil
}

func (s *Server) respond(w http.ResponseWriter, rows []TopSeller) {
	if rows == nil {
		rows = []TopSeller{}
	}
	kit.WriteJSON(w, http.StatusOK, rows)
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
