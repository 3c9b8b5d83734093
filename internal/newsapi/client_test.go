package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTopHeadlines_SendsQueryAndParsesEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-headlines" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("country") != "us" || q.Get("page") != "2" || q.Get("pageSize") != "5" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("apiKey") != "secret" {
			t.Fatalf("missing api key: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[{"source":{"id":null,"name":"Example"},"author":null,"title":"First","description":"Desc","url":"https://example.com/1","urlToImage":"https://example.com/1.jpg","publishedAt":"2026-02-01T10:00:00Z","content":"Body [+120 chars]"}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "secret", ts.Client())
	articles, err := c.TopHeadlines(context.Background(), "us", 2, 5)
	if err != nil {
		t.Fatalf("TopHeadlines returned error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	a := articles[0]
	if a.Title != "First" || a.Author != "" || a.ImageURL != "https://example.com/1.jpg" || a.Source.Name != "Example" {
		t.Fatalf("unexpected article: %+v", a)
	}
	if got := a.PublishedTime(); !got.Equal(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected published time: %s", got)
	}
}

func TestSearch_UsesEverythingEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "apple pie" {
			t.Fatalf("unexpected q: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "secret", ts.Client())
	articles, err := c.Search(context.Background(), "  apple pie ", 1, 20)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if articles == nil || len(articles) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", articles)
	}
}

func TestInvalidRequest_FailsBeforeNetwork(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "secret", ts.Client())
	cases := []func() error{
		func() error { _, err := c.Search(context.Background(), "   ", 1, 20); return err },
		func() error { _, err := c.TopHeadlines(context.Background(), "", 1, 20); return err },
		func() error { _, err := c.TopHeadlines(context.Background(), "us", 0, 20); return err },
		func() error { _, err := c.TopHeadlines(context.Background(), "us", 1, 101); return err },
	}
	for i, fn := range cases {
		kind, ok := KindOf(fn())
		if !ok || kind != KindInvalidRequest {
			t.Fatalf("case %d: expected invalid request, got kind=%v ok=%v", i, kind, ok)
		}
	}
	if called {
		t.Fatal("expected no request to reach the server")
	}
}

func TestHTTPStatus_CarriesAPIErrorEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "wrong", ts.Client())
	_, err := c.TopHeadlines(context.Background(), "us", 1, 20)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Kind != KindHTTPStatus || fe.StatusCode != http.StatusUnauthorized || fe.Code != "apiKeyInvalid" {
		t.Fatalf("unexpected error: %+v", fe)
	}
	if !strings.Contains(err.Error(), "status code 401") {
		t.Fatalf("unexpected message: %v", err)
	}
	if IsRetryable(err) {
		t.Fatal("401 must not be retryable")
	}
}

func TestDecodeAndInvalidData(t *testing.T) {
	bodies := map[string]ErrorKind{
		``:                              KindInvalidData,
		`not json`:                      KindDecode,
		`{"status":"error","code":"x"}`: KindInvalidData,
	}
	for body, want := range bodies {
		body := body
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		c := NewClient(ts.URL, "secret", ts.Client())
		_, err := c.TopHeadlines(context.Background(), "us", 1, 20)
		ts.Close()
		kind, ok := KindOf(err)
		if !ok || kind != want {
			t.Fatalf("body %q: expected %v, got %v (%v)", body, want, kind, err)
		}
	}
}

func TestTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewClient(url, "secret", nil)
	_, err := c.TopHeadlines(context.Background(), "us", 1, 20)
	kind, ok := KindOf(err)
	if !ok || kind != KindInvalidResponse {
		t.Fatalf("expected invalid response, got %v", err)
	}
	if !IsRetryable(err) {
		t.Fatal("transport failures are retryable")
	}
}

func TestCanceledContext_IsWrapped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClient(ts.URL, "secret", ts.Client())
	_, err := c.TopHeadlines(ctx, "us", 1, 20)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
	if kind, _ := KindOf(err); kind != KindWrapped {
		t.Fatalf("expected wrapped kind, got %v", kind)
	}
}
