package newsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL  = "https://newsapi.org/v2"
	DefaultPageSize = 20
	maxPageSize     = 100
	maxBodyBytes    = 8 << 20
)

// Article is the subset of NewsAPI article fields used by the app. Every field is
// optional; JSON nulls decode to the empty string.
type Article struct {
	Source      Source `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	URL         string `json:"url"`
	ImageURL    string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PublishedTime parses PublishedAt. The zero time is returned when it is absent or malformed.
func (a Article) PublishedTime() time.Time {
	if a.PublishedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

type envelope struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// TopHeadlines lists the top headlines for a two-letter country code.
func (c *Client) TopHeadlines(ctx context.Context, country string, page, pageSize int) ([]Article, error) {
	const op = "top headlines"
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, &FetchError{Kind: KindInvalidRequest, Op: op, Message: "country is required"}
	}
	q, err := pageQuery(op, page, pageSize)
	if err != nil {
		return nil, err
	}
	q.Set("country", country)
	return c.list(ctx, op, "/top-headlines", q)
}

// Search lists articles matching query across all sources.
func (c *Client) Search(ctx context.Context, query string, page, pageSize int) ([]Article, error) {
	const op = "search"
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &FetchError{Kind: KindInvalidRequest, Op: op, Message: "query is required"}
	}
	q, err := pageQuery(op, page, pageSize)
	if err != nil {
		return nil, err
	}
	q.Set("q", query)
	return c.list(ctx, op, "/everything", q)
}

func pageQuery(op string, page, pageSize int) (url.Values, error) {
	if page < 1 {
		return nil, &FetchError{Kind: KindInvalidRequest, Op: op, Message: fmt.Sprintf("page must be >= 1, got %d", page)}
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, &FetchError{Kind: KindInvalidRequest, Op: op, Message: fmt.Sprintf("page size must be in 1..%d, got %d", maxPageSize, pageSize)}
	}
	q := make(url.Values)
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	return q, nil
}

func (c *Client) list(ctx context.Context, op, path string, q url.Values) ([]Article, error) {
	req, err := c.newRequest(ctx, path, q)
	if err != nil {
		return nil, &FetchError{Kind: KindInvalidRequest, Op: op, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &FetchError{Kind: KindWrapped, Op: op, Err: ctxErr}
		}
		return nil, &FetchError{Kind: KindInvalidResponse, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Kind: KindInvalidResponse, Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fe := &FetchError{Kind: KindHTTPStatus, Op: op, StatusCode: resp.StatusCode}
		var apiErr envelope
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Status == "error" {
			fe.Code = apiErr.Code
			fe.Message = apiErr.Message
		} else if trimmed := strings.TrimSpace(string(body)); trimmed != "" && len(trimmed) <= 512 {
			fe.Message = trimmed
		}
		return nil, fe
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &FetchError{Kind: KindInvalidData, Op: op, Message: "empty response body"}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &FetchError{Kind: KindDecode, Op: op, Err: err}
	}
	if env.Status == "error" {
		return nil, &FetchError{Kind: KindInvalidData, Op: op, Code: env.Code, Message: env.Message}
	}
	if env.Articles == nil {
		env.Articles = []Article{}
	}
	return env.Articles, nil
}

func (c *Client) newRequest(ctx context.Context, path string, q url.Values) (*http.Request, error) {
	if c.apiKey != "" {
		q.Set("apiKey", c.apiKey)
	}
	fullURL := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// IsRetryable reports whether err came from the transport, a 429 or a 5xx answer.
// The feed controller never retries on its own; the TUI uses this to word its warning.
func IsRetryable(err error) bool {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	switch fe.Kind {
	case KindInvalidResponse:
		return true
	case KindHTTPStatus:
		return fe.StatusCode >= 500 || fe.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}
