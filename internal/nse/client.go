package nse

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"nsedash/internal/httpx"
	"nsedash/internal/market"
)

const (
	defaultBaseURL = "https://www.nseindia.com"
	quotePath      = "/api/quote-equity"

	// The site refuses requests that do not look like a browser.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Client fetches the quote and trade payloads for a symbol from the NSE site
// API. Bare API calls are rejected until the session has cookies from a page
// visit, so the first Fetch primes the session against the site root; the
// underlying http.Client's jar carries the cookies afterwards.
type Client struct {
	rc *resty.Client

	mu     sync.Mutex
	primed bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the NSE site base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.rc.SetBaseURL(u) }
}

func New(hc *httpx.Client, opts ...Option) *Client {
	rc := resty.NewWithClient(hc.HTTP).
		SetBaseURL(defaultBaseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json, text/html, */*").
		SetHeader("Accept-Language", "en-US,en;q=0.9")
	c := &Client{rc: rc}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch retrieves the matched payload pair for symbol. The two GETs run
// concurrently; if either fails the whole call fails with a FetchError and
// no partial pair is returned.
func (c *Client) Fetch(ctx context.Context, symbol string) (market.RawQuote, market.RawTrade, error) {
	fail := func(err error) (market.RawQuote, market.RawTrade, error) {
		slog.Error("nse fetch failed", slog.String("symbol", symbol), slog.Any("error", err))
		return market.RawQuote{}, market.RawTrade{}, &market.FetchError{Symbol: symbol, Cause: err}
	}

	if err := c.prime(ctx); err != nil {
		return fail(err)
	}

	var (
		quote market.RawQuote
		trade market.RawTrade
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := c.get(gctx, symbol, "")
		if err != nil {
			return err
		}
		quote = market.ParseRawQuote(b)
		if !quote.Get("priceInfo").Exists() && !quote.Get("metadata").Exists() {
			return fmt.Errorf("no quote data for %q (unknown symbol?)", symbol)
		}
		return nil
	})
	g.Go(func() error {
		b, err := c.get(gctx, symbol, "trade_info")
		if err != nil {
			return err
		}
		trade = market.ParseRawTrade(b)
		return nil
	})
	if err := g.Wait(); err != nil {
		return fail(err)
	}
	return quote, trade, nil
}

// prime performs the one-time cookie warmup. A failed warmup is retried on
// the next Fetch rather than being latched.
func (c *Client) prime(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.primed {
		return nil
	}
	slog.Debug("priming nse session")
	resp, err := c.rc.R().SetContext(ctx).Get("/")
	if err != nil {
		return fmt.Errorf("prime session: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("prime session: status %d", resp.StatusCode())
	}
	c.primed = true
	return nil
}

func (c *Client) get(ctx context.Context, symbol, section string) ([]byte, error) {
	req := c.rc.R().SetContext(ctx).SetQueryParam("symbol", symbol)
	if section != "" {
		req.SetQueryParam("section", section)
	}
	slog.Debug("nse request", slog.String("symbol", symbol), slog.String("section", section))
	resp, err := req.Get(quotePath)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("GET %s: status %d", resp.Request.URL, resp.StatusCode())
	}
	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("GET %s: malformed response body", resp.Request.URL)
	}
	return body, nil
}
