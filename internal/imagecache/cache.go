// Package imagecache downloads article images and keeps them in memory under
// an explicit byte budget and expiration.
package imagecache

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const maxImageBytes = 5 * 1024 * 1024

var ErrTooLarge = errors.New("image exceeds size limit")

// Config is supplied once at startup. MaxBytes 0 disables caching and TTL 0
// keeps entries until they are evicted by size.
type Config struct {
	MaxBytes int64
	TTL      time.Duration
}

type entry struct {
	url     string
	data    []byte
	expires time.Time
}

type Cache struct {
	cfg    Config
	client *http.Client
	now    func() time.Time

	mu      sync.Mutex
	used    int64
	order   *list.List
	entries map[string]*list.Element
}

func New(cfg Config, client *http.Client) *Cache {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	return &Cache{
		cfg:     cfg,
		client:  client,
		now:     time.Now,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Get returns the image bytes for url, downloading them on a miss.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, error) {
	if data, ok := c.lookup(url); ok {
		return data, nil
	}
	data, err := c.download(ctx, url)
	if err != nil {
		return nil, err
	}
	c.store(url, data)
	return data, nil
}

// Len reports the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Used reports the cached bytes.
func (c *Cache) Used() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

func (c *Cache) lookup(url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[url]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.removeElement(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return e.data, true
}

func (c *Cache) store(url string, data []byte) {
	size := int64(len(data))
	if c.cfg.MaxBytes <= 0 || size > c.cfg.MaxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[url]; ok {
		c.removeElement(el)
	}
	e := &entry{url: url, data: data}
	if c.cfg.TTL > 0 {
		e.expires = c.now().Add(c.cfg.TTL)
	}
	c.entries[url] = c.order.PushFront(e)
	c.used += size

	for c.used > c.cfg.MaxBytes {
		c.removeElement(c.order.Back())
	}
}

func (c *Cache) removeElement(el *list.Element) {
	e := c.order.Remove(el).(*entry)
	delete(c.entries, e.url)
	c.used -= int64(len(e.data))
}

func (c *Cache) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
