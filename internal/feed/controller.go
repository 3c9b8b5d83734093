// Package feed owns the article list shown by the feed screen: which query is
// active, how many pages have been loaded, whether a request is outstanding and
// the debounce window for search input.
//
// A Controller is not safe for concurrent use. It is driven from the Bubble Tea
// Update loop: operations return tea.Cmds that perform the slow work, and the
// resulting messages must be handed back through Update before they touch state.
package feed

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/glabrego/headlines-cli/internal/newsapi"
)

const (
	DefaultCountry        = "us"
	DefaultPageSize       = 20
	DefaultDebounce       = time.Second
	DefaultMinQueryLength = 3
	DefaultTimeout        = 10 * time.Second
)

// Client is the news source consumed by the controller.
type Client interface {
	TopHeadlines(ctx context.Context, country string, page, pageSize int) ([]newsapi.Article, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]newsapi.Article, error)
}

// TickFunc schedules fn after d. tea.Tick is the production implementation.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

type Options struct {
	Country        string
	PageSize       int
	Debounce       time.Duration
	MinQueryLength int
	Timeout        time.Duration
	Logger         *slog.Logger
	Tick           TickFunc
}

// Mode selects the endpoint: top headlines when the query is empty, search otherwise.
type Mode struct {
	query string
}

func Top() Mode { return Mode{} }

func Search(term string) Mode { return Mode{query: term} }

func (m Mode) IsTop() bool { return m.query == "" }

func (m Mode) Query() string { return m.query }

func (m Mode) String() string {
	if m.IsTop() {
		return "top"
	}
	return "search:" + m.query
}

// DataChangedMsg is emitted after a fetch result replaced (Reset) or extended the article list.
type DataChangedMsg struct {
	Mode  Mode
	Page  int
	Reset bool
	Added int
	Total int
}

// FetchFailedMsg is emitted when a fetch ends in error. The article list is unchanged.
type FetchFailedMsg struct {
	Mode  Mode
	Page  int
	Reset bool
	Err   error
}

type searchFireMsg struct {
	gen  uint64
	mode Mode
}

// ticket identifies the single outstanding request.
type ticket struct {
	id    string
	mode  Mode
	page  int
	reset bool
}

type fetchResultMsg struct {
	ticket   ticket
	articles []newsapi.Article
	err      error
	duration time.Duration
}

type Controller struct {
	client      Client
	country     string
	pageSize    int
	debounce    time.Duration
	minQueryLen int
	timeout     time.Duration
	logger      *slog.Logger
	tick        TickFunc

	mode      Mode
	page      int
	articles  []newsapi.Article
	inflight  *ticket
	exhausted bool

	searchGen  uint64
	pendingGen uint64
	closed     bool
}

func NewController(client Client, opts Options) Controller {
	c := Controller{
		client:      client,
		country:     opts.Country,
		pageSize:    opts.PageSize,
		debounce:    opts.Debounce,
		minQueryLen: opts.MinQueryLength,
		timeout:     opts.Timeout,
		logger:      opts.Logger,
		tick:        opts.Tick,
		mode:        Top(),
		page:        1,
	}
	if c.country == "" {
		c.country = DefaultCountry
	}
	if c.pageSize < 1 {
		c.pageSize = DefaultPageSize
	}
	if c.debounce <= 0 {
		c.debounce = DefaultDebounce
	}
	if c.minQueryLen < 1 {
		c.minQueryLen = DefaultMinQueryLength
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.tick == nil {
		c.tick = tea.Tick
	}
	return c
}

// Seed shows cached articles before the first response arrives. It does not
// change mode or page and is ignored once a request has been issued.
func (c *Controller) Seed(articles []newsapi.Article) {
	if c.inflight != nil || len(c.articles) > 0 {
		return
	}
	c.articles = append([]newsapi.Article(nil), articles...)
}

func (c Controller) Mode() Mode { return c.mode }

func (c Controller) Page() int { return c.page }

func (c Controller) PageSize() int { return c.pageSize }

func (c Controller) Loading() bool { return c.inflight != nil }

func (c Controller) Exhausted() bool { return c.exhausted }

func (c Controller) SearchPending() bool { return c.pendingGen != 0 }

// Articles returns the current list. Callers must not modify it.
func (c Controller) Articles() []newsapi.Article {
	return c.articles[:len(c.articles):len(c.articles)]
}

// FetchInitial reloads the first page of the current mode.
func (c *Controller) FetchInitial() tea.Cmd {
	return c.fetch(true)
}

// LoadMore requests the page after the last one received.
func (c *Controller) LoadMore() tea.Cmd {
	if c.exhausted && c.inflight == nil {
		c.logger.Debug("load more skipped: feed exhausted", "mode", c.mode.String(), "page", c.page)
		return nil
	}
	return c.fetch(false)
}

// Search debounces a mode switch driven by raw search-box text. Empty text
// returns to top headlines; text shorter than the minimum length only cancels
// the pending switch.
func (c *Controller) Search(text string) tea.Cmd {
	if c.closed {
		return nil
	}
	trimmed := strings.TrimSpace(text)
	c.pendingGen = 0

	var next Mode
	switch n := utf8.RuneCountInString(trimmed); {
	case n == 0:
		next = Top()
	case n >= c.minQueryLen:
		next = Search(trimmed)
	default:
		c.logger.Debug("search input below minimum length", "length", n, "min", c.minQueryLen)
		return nil
	}

	c.searchGen++
	gen := c.searchGen
	c.pendingGen = gen
	return c.tick(c.debounce, func(time.Time) tea.Msg {
		return searchFireMsg{gen: gen, mode: next}
	})
}

// Close cancels the pending search and stops accepting requests. Results that
// arrive afterwards are dropped.
func (c *Controller) Close() {
	c.pendingGen = 0
	c.closed = true
}

// Update consumes the controller's own messages and ignores everything else.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case searchFireMsg:
		return c.fireSearch(msg)
	case fetchResultMsg:
		return c.applyResult(msg)
	}
	return nil
}

func (c *Controller) fireSearch(msg searchFireMsg) tea.Cmd {
	if c.closed || msg.gen == 0 || msg.gen != c.pendingGen {
		return nil
	}
	c.pendingGen = 0
	if c.inflight != nil {
		c.logger.Debug("search dropped: request in flight", "mode", msg.mode.String(), "request_id", c.inflight.id)
		return nil
	}
	c.mode = msg.mode
	return c.fetch(true)
}

func (c *Controller) fetch(reset bool) tea.Cmd {
	if c.closed || c.client == nil {
		return nil
	}
	if c.inflight != nil {
		c.logger.Debug("fetch dropped: request in flight", "request_id", c.inflight.id, "reset", reset)
		return nil
	}

	page := c.page + 1
	if reset {
		page = 1
	}
	t := ticket{id: uuid.NewString(), mode: c.mode, page: page, reset: reset}
	c.inflight = &t
	c.logger.Debug("fetch started", "request_id", t.id, "mode", t.mode.String(), "page", t.page, "reset", t.reset)

	client, country, pageSize, timeout := c.client, c.country, c.pageSize, c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()

		var (
			articles []newsapi.Article
			err      error
		)
		if t.mode.IsTop() {
			articles, err = client.TopHeadlines(ctx, country, t.page, pageSize)
		} else {
			articles, err = client.Search(ctx, t.mode.Query(), t.page, pageSize)
		}
		return fetchResultMsg{ticket: t, articles: articles, err: err, duration: time.Since(start)}
	}
}

func (c *Controller) applyResult(msg fetchResultMsg) tea.Cmd {
	t := msg.ticket
	if c.inflight == nil || c.inflight.id != t.id {
		c.logger.Warn("unmatched fetch result dropped", "request_id", t.id)
		return nil
	}
	c.inflight = nil
	if c.closed {
		return nil
	}

	if msg.err != nil {
		c.logger.Warn("fetch failed",
			"request_id", t.id,
			"mode", t.mode.String(),
			"page", t.page,
			"duration", msg.duration,
			"err", msg.err,
		)
		failed := FetchFailedMsg{Mode: t.mode, Page: t.page, Reset: t.reset, Err: msg.err}
		return func() tea.Msg { return failed }
	}

	if t.reset {
		c.articles = append([]newsapi.Article(nil), msg.articles...)
		c.exhausted = false
	} else {
		c.articles = append(c.articles, msg.articles...)
		c.exhausted = len(msg.articles) == 0
	}
	c.page = t.page

	c.logger.Info("fetch completed",
		"request_id", t.id,
		"mode", t.mode.String(),
		"page", t.page,
		"articles", len(msg.articles),
		"total", len(c.articles),
		"duration", msg.duration,
	)
	changed := DataChangedMsg{Mode: t.mode, Page: t.page, Reset: t.reset, Added: len(msg.articles), Total: len(c.articles)}
	return func() tea.Msg { return changed }
}
