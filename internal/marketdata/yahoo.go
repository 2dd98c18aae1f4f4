package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"finance_tracker/internal/calendar"
	apperrors "finance_tracker/internal/errors"
)

// YahooConfig configures a YahooClient.
type YahooConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	CacheTTL      time.Duration
}

// chart is the part of a chart response the client keeps.
type chart struct {
	name      string
	price     decimal.Decimal
	open      decimal.Decimal
	days      []time.Time
	closes    []*float64
	fetchedAt time.Time
}

// YahooClient reads one year of daily bars per symbol from the Yahoo Finance chart endpoint.
// Responses are cached in memory for CacheTTL and requests are throttled to RatePerSecond.
// Failed requests are not retried.
type YahooClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	log     logrus.FieldLogger

	mu     sync.RWMutex
	cache  map[string]chart
	maxAge time.Duration
}

// NewYahooClient creates a new YahooClient.
func NewYahooClient(cfg YahooConfig, log logrus.FieldLogger) *YahooClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 2
	}
	return &YahooClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		log:     log,
		cache:   make(map[string]chart),
		maxAge:  cfg.CacheTTL,
	}
}

// CurrentPrice returns the regular market price.
func (c *YahooClient) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	ch, err := c.chart(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return ch.price, nil
}

// OpeningPrice returns the open of the latest daily bar.
func (c *YahooClient) OpeningPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	ch, err := c.chart(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return ch.open, nil
}

// HistoricalClose returns the first close on or after asOf.
func (c *YahooClient) HistoricalClose(ctx context.Context, symbol string, asOf time.Time) (decimal.Decimal, error) {
	ch, err := c.chart(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	asOf = calendar.Day(asOf)
	for i, d := range ch.days {
		if d.Before(asOf) || ch.closes[i] == nil {
			continue
		}
		return decimal.NewFromFloat(*ch.closes[i]), nil
	}
	return decimal.Zero, apperrors.UnknownSymbol(symbol,
		fmt.Errorf("no close on or after %s", calendar.Format(asOf)))
}

// DisplayName returns the short company name.
func (c *YahooClient) DisplayName(ctx context.Context, symbol string) (string, error) {
	ch, err := c.chart(ctx, symbol)
	if err != nil {
		return "", err
	}
	return ch.name, nil
}

// clearCache drops every cached chart.
func (c *YahooClient) clearCache() {
	c.mu.Lock()
	c.cache = make(map[string]chart)
	c.mu.Unlock()
}

func (c *YahooClient) chart(ctx context.Context, symbol string) (chart, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return chart{}, apperrors.UnknownSymbol(symbol, nil)
	}

	c.mu.RLock()
	if ch, ok := c.cache[symbol]; ok && time.Since(ch.fetchedAt) < c.maxAge {
		c.mu.RUnlock()
		return ch, nil
	}
	c.mu.RUnlock()

	ch, err := c.fetch(ctx, symbol)
	if err != nil {
		return chart{}, err
	}

	c.mu.Lock()
	c.cache[symbol] = ch
	c.mu.Unlock()
	return ch, nil
}

func (c *YahooClient) fetch(ctx context.Context, symbol string) (chart, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return chart{}, apperrors.UnknownSymbol(symbol, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addr := fmt.Sprintf("%s/v8/finance/chart/%s?range=1y&interval=1d", c.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return chart{}, apperrors.UnknownSymbol(symbol, err)
	}
	req.Header.Set("User-Agent", "finance-tracker/1.0")
	req.Header.Set("Accept", "application/json")

	c.log.WithField("symbol", symbol).Debug("fetching chart")
	resp, err := c.client.Do(req)
	if err != nil {
		return chart{}, apperrors.UnknownSymbol(symbol, fmt.Errorf("fetching chart: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return chart{}, apperrors.UnknownSymbol(symbol, fmt.Errorf("chart API returned %d", resp.StatusCode))
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return chart{}, apperrors.UnknownSymbol(symbol, fmt.Errorf("parsing chart response: %w", err))
	}

	ch, err := parseChart(jobj)
	if err != nil {
		return chart{}, apperrors.UnknownSymbol(symbol, err)
	}
	ch.fetchedAt = time.Now()
	return ch, nil
}

func parseChart(jobj any) (chart, error) {
	var ch chart

	price, err := getFloat(jobj, "$.chart.result[0].meta.regularMarketPrice")
	if err != nil {
		return ch, err
	}
	ch.price = decimal.NewFromFloat(price)

	ch.name, _ = getString(jobj, "$.chart.result[0].meta.shortName")
	if ch.name == "" {
		if ch.name, err = getString(jobj, "$.chart.result[0].meta.longName"); err != nil {
			return ch, err
		}
	}

	stamps, err := getList(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		return ch, err
	}
	opens, err := getList(jobj, "$.chart.result[0].indicators.quote[0].open")
	if err != nil {
		return ch, err
	}
	closes, err := getList(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return ch, err
	}
	if len(stamps) == 0 || len(opens) != len(stamps) || len(closes) != len(stamps) {
		return ch, fmt.Errorf("chart has %d timestamps, %d opens and %d closes", len(stamps), len(opens), len(closes))
	}

	ch.days = make([]time.Time, len(stamps))
	ch.closes = make([]*float64, len(stamps))
	for i := range stamps {
		sec, ok := stamps[i].(float64)
		if !ok {
			return ch, fmt.Errorf("timestamp %d is not a number: %v", i, stamps[i])
		}
		ch.days[i] = calendar.Day(time.Unix(int64(sec), 0).UTC())
		if v, ok := closes[i].(float64); ok {
			ch.closes[i] = &v
		}
	}

	// Today's bar may still be forming with a null open; take the latest one present.
	for i := len(opens) - 1; i >= 0; i-- {
		if v, ok := opens[i].(float64); ok {
			ch.open = decimal.NewFromFloat(v)
			return ch, nil
		}
	}
	return ch, fmt.Errorf("chart has no opening price")
}

// get evaluates path and unwraps single-element result lists.
func get(jobj any, path string) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return jval, nil
}

func getFloat(jobj any, path string) (float64, error) {
	jval, err := get(jobj, path)
	if err != nil {
		return 0, err
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("reading %s: not a number: %v", path, jval)
	}
	return val, nil
}

func getString(jobj any, path string) (string, error) {
	jval, err := get(jobj, path)
	if err != nil {
		return "", err
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("reading %s: not a string: %v", path, jval)
	}
	return val, nil
}

func getList(jobj any, path string) ([]any, error) {
	jval, err := get(jobj, path)
	if err != nil {
		return nil, err
	}
	list, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("reading %s: not a list", path)
	}
	return list, nil
}
