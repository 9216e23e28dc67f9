package shop

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingStore struct {
	inner Store
	calls atomic.Int64
	delay time.Duration
}

func (s *countingStore) TopSellers(ctx context.Context, p TopSellerParams) ([]TopSeller, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.inner.TopSellers(ctx, p)
}

func (s *countingStore) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

type errStore struct{ err error }

func (s *errStore) TopSellers(context.Context, TopSellerParams) ([]TopSeller, error) {
	return nil, s.err
}
func (s *errStore) Ping(context.Context) error { return s.err }

type failCache struct{ err error }

func (c *failCache) Get(context.Context, string) ([]TopSeller, bool, error) {
	return nil, false, c.err
}
func (c *failCache) Set(context.Context, string, []TopSeller, time.Duration) error {
	return c.err
}

func newTestTS(t *testing.T, store Store, cache Cache) *httptest.Server {
	t.Helper()

	s := &Server{
		Store: store,
		Cache: cache,
		TTL:   time.Minute,
		Log:   zap.NewNop(),
		now:   func() time.Time { return testNow },
	}

	h := NewHandler(s, HTTPDeps{Log: zap.NewNop(), Service: "shop"})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func getTopSellers(t *testing.T, url string) (int, []TopSeller) {
	t.Helper()

	resp, err := http.Get(url + "/top-sellers/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var rows []TopSeller
	if resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(raw, &rows); err != nil {
			t.Fatalf("unmarshal %q: %v", raw, err)
		}
	}
	return resp.StatusCode, rows
}

func TestTopSellersEndpoint_FreshThenCached(t *testing.T) {
	store := &countingStore{inner: newScenarioStore(t)}
	ts := newTestTS(t, store, NewMemCache())

	status, rows := getTopSellers(t, ts.URL)
	if status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if len(rows) != 2 || rows[0].ProductID != 2 || rows[0].TotalSold != 10 || rows[1].TotalSold != 5 {
		t.Fatalf("unexpected payload: %+v", rows)
	}

	// A sale landing after the cache fill must not show up within the TTL.
	mem := store.inner.(*MemStore)
	ids, _ := mem.InsertOrders(context.Background(), []Order{
		{CustomerID: 1, Status: StatusDelivered, CreatedAt: testNow.Add(-time.Hour)},
	})
	_ = mem.InsertOrderItems(context.Background(), []OrderItem{
		{OrderID: ids[0], ProductID: 1, Quantity: 100},
	})

	status, rows2 := getTopSellers(t, ts.URL)
	if status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if rows2[0].ProductID != 2 || rows2[1].TotalSold != 5 {
		t.Fatalf("cached payload changed before TTL: %+v", rows2)
	}
	if got := store.calls.Load(); got != 1 {
		t.Fatalf("store queried %d times, want 1", got)
	}
}

func TestTopSellersEndpoint_EmptyStoreReturnsEmptyArray(t *testing.T) {
	ts := newTestTS(t, NewMemStore(), NewMemCache())

	resp, err := http.Get(ts.URL + "/top-sellers/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}
	if string(raw) != "[]\n" {
		t.Fatalf("empty result must encode as [], got %q", raw)
	}
}

func TestTopSellersEndpoint_CachedEmptyResultSkipsStore(t *testing.T) {
	store := &countingStore{inner: NewMemStore()}
	ts := newTestTS(t, store, NewMemCache())

	for i := 0; i < 3; i++ {
		if status, _ := getTopSellers(t, ts.URL); status != http.StatusOK {
			t.Fatalf("status=%d", status)
		}
	}
	if got := store.calls.Load(); got != 1 {
		t.Fatalf("empty result not cached, store queried %d times", got)
	}
}

func TestTopSellersEndpoint_CacheErrorDegradesToStore(t *testing.T) {
	store := &countingStore{inner: newScenarioStore(t)}
	ts := newTestTS(t, store, &failCache{err: errors.New("redis down")})

	status, rows := getTopSellers(t, ts.URL)
	if status != http.StatusOK {
		t.Fatalf("cache failure must not fail the request, status=%d", status)
	}
	if len(rows) != 2 || rows[0].TotalSold != 10 {
		t.Fatalf("unexpected payload: %+v", rows)
	}
	if got := store.calls.Load(); got != 1 {
		t.Fatalf("store queried %d times, want 1", got)
	}
}

func TestTopSellersEndpoint_StoreErrorIsServerFault(t *testing.T) {
	ts := newTestTS(t, &errStore{err: errors.New("connection refused")}, NewMemCache())

	status, _ := getTopSellers(t, ts.URL)
	if status != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", status)
	}
}

func TestTopSellersEndpoint_ConcurrentMissesShareOneQuery(t *testing.T) {
	store := &countingStore{inner: newScenarioStore(t), delay: 250 * time.Millisecond}
	ts := newTestTS(t, store, NewMemCache())

	const n = 10
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			resp, err := http.Get(ts.URL + "/top-sellers/")
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)
			if resp.StatusCode != http.StatusOK {
				t.Errorf("status=%d", resp.StatusCode)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := store.calls.Load(); got != 1 {
		t.Fatalf("concurrent misses ran %d aggregations, want 1", got)
	}
}

func TestReadyz_FailsWhenStoreDown(t *testing.T) {
	ts := newTestTS(t, &errStore{err: errors.New("connection refused")}, NewMemCache())

	resp, err := http.Get(ts.URL + "/readyz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", resp.StatusCode)
	}
}
