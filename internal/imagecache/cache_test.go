package imagecache

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func imageServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/small":
			_, _ = w.Write(bytes.Repeat([]byte("a"), 10))
		case "/medium":
			_, _ = w.Write(bytes.Repeat([]byte("b"), 20))
		case "/large":
			_, _ = w.Write(bytes.Repeat([]byte("c"), 40))
		case "/huge":
			_, _ = w.Write(bytes.Repeat([]byte("d"), maxImageBytes+1))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCache_HitAvoidsDownload(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits)
	c := New(Config{MaxBytes: 100, TTL: time.Hour}, srv.Client())

	for range 3 {
		data, err := c.Get(context.Background(), srv.URL+"/small")
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if len(data) != 10 {
			t.Fatalf("unexpected image size %d", len(data))
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one download, got %d", hits.Load())
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits)
	c := New(Config{MaxBytes: 30}, srv.Client())
	ctx := context.Background()

	mustGet(t, c, srv.URL+"/small")
	mustGet(t, c, srv.URL+"/medium")
	mustGet(t, c, srv.URL+"/small")
	if c.Used() != 30 || c.Len() != 2 {
		t.Fatalf("unexpected usage used=%d len=%d", c.Used(), c.Len())
	}

	// medium is now the oldest and must make room for the next 10 bytes.
	if _, err := c.Get(ctx, srv.URL+"/small?v=2"); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if c.Len() != 2 || c.Used() != 20 {
		t.Fatalf("unexpected usage after eviction used=%d len=%d", c.Used(), c.Len())
	}
	before := hits.Load()
	mustGet(t, c, srv.URL+"/small")
	if hits.Load() != before {
		t.Fatal("recently used image was evicted")
	}
}

func TestCache_OversizedEntryNotStored(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits)
	c := New(Config{MaxBytes: 30}, srv.Client())

	mustGet(t, c, srv.URL+"/large")
	if c.Len() != 0 || c.Used() != 0 {
		t.Fatalf("oversized image cached: used=%d", c.Used())
	}
}

func TestCache_ExpiredEntryRefetched(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits)
	c := New(Config{MaxBytes: 100, TTL: time.Minute}, srv.Client())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	mustGet(t, c, srv.URL+"/small")
	now = now.Add(time.Minute)
	mustGet(t, c, srv.URL+"/small")
	if hits.Load() != 2 {
		t.Fatalf("expected refetch after expiry, got %d downloads", hits.Load())
	}
}

func TestCache_Errors(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits)
	c := New(Config{MaxBytes: 100}, srv.Client())

	if _, err := c.Get(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected status error")
	}
	if _, err := c.Get(context.Background(), srv.URL+"/huge"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := c.Get(context.Background(), "://bad"); err == nil {
		t.Fatal("expected request error")
	}
}

func mustGet(t *testing.T, c *Cache, url string) {
	t.Helper()
	if _, err := c.Get(context.Background(), url); err != nil {
		t.Fatalf("Get(%s) returned error: %v", url, err)
	}
}
