package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_tracker/internal/calendar"
	apperrors "finance_tracker/internal/errors"
)

// 2023-05-15, 2023-05-16, 2023-05-17 at 13:30 UTC.
const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "ABC", "regularMarketPrice": 18.5, "shortName": "ABC Corp", "longName": "ABC Corporation"},
      "timestamp": [1684157400, 1684243800, 1684330200],
      "indicators": {"quote": [{
        "open":  [11.0, 12.0, null],
        "close": [null, 12.25, 13.0]
      }]}
    }],
    "error": null
  }
}`

const notFoundFixture = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*YahooClient, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	c := NewYahooClient(YahooConfig{
		BaseURL:       srv.URL,
		Timeout:       time.Second,
		RatePerSecond: 1000,
		CacheTTL:      time.Minute,
	}, logger)
	return c, &hits
}

func serveFixture(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/") || r.URL.Query().Get("range") != "1y" || r.URL.Query().Get("interval") != "1d" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestYahooClient_ReadsChart(t *testing.T) {
	c, _ := newTestClient(t, serveFixture(chartFixture))
	ctx := context.Background()

	price, err := c.CurrentPrice(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("18.5").Equal(price))

	open, err := c.OpeningPrice(ctx, "ABC")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(open), "open = %s, want the latest non-null open", open)

	name, err := c.DisplayName(ctx, "ABC")
	require.NoError(t, err)
	assert.Equal(t, "ABC Corp", name)
}

func TestYahooClient_HistoricalClose_FirstCloseOnOrAfter(t *testing.T) {
	c, _ := newTestClient(t, serveFixture(chartFixture))
	ctx := context.Background()

	tests := []struct {
		asOf time.Time
		want string
	}{
		{calendar.Date(2023, 1, 1), "12.25"}, // first bar has no close
		{calendar.Date(2023, 5, 16), "12.25"},
		{calendar.Date(2023, 5, 17), "13"},
	}
	for _, tt := range tests {
		got, err := c.HistoricalClose(ctx, "ABC", tt.asOf)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String(), "asOf %s", calendar.Format(tt.asOf))
	}

	_, err := c.HistoricalClose(ctx, "ABC", calendar.Date(2023, 6, 1))
	assert.True(t, apperrors.IsUnknownSymbol(err))
}

func TestYahooClient_CachesCharts(t *testing.T) {
	c, hits := newTestClient(t, serveFixture(chartFixture))
	ctx := context.Background()

	_, err := QuoteFor(ctx, c, "ABC", calendar.Date(2024, 5, 16))
	require.NoError(t, err)
	_, err = c.DisplayName(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	c.clearCache()
	_, err = c.CurrentPrice(ctx, "ABC")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestYahooClient_Failures_ReturnUnknownSymbol(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(notFoundFixture))
		}},
		{"null result", serveFixture(`{"chart":{"result":null,"error":null}}`)},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed json", serveFixture(`{"chart":`)},
		{"missing price", serveFixture(`{"chart":{"result":[{"meta":{"shortName":"X"}}]}}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler)
			_, err := c.CurrentPrice(context.Background(), "ZZZZ")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrUnknownSymbol)
		})
	}
}

func TestYahooClient_NoRetryOnFailure(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	_, err := c.CurrentPrice(context.Background(), "ABC")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestYahooClient_CancelledContext(t *testing.T) {
	c, hits := newTestClient(t, serveFixture(chartFixture))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CurrentPrice(ctx, "ABC")
	assert.True(t, apperrors.IsUnknownSymbol(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestStatic(t *testing.T) {
	s := NewStatic(map[string]StaticQuote{
		"abc": {Name: "ABC Corp", Current: decimal.NewFromInt(18), Open: decimal.NewFromInt(17), YearAgoClose: decimal.NewFromInt(12)},
	})

	q, err := QuoteFor(context.Background(), s, "ABC", time.Now())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(18).Equal(q.Current))
	assert.True(t, decimal.NewFromInt(12).Equal(q.YearAgoClose))

	s.Remove("ABC")
	_, err = s.DisplayName(context.Background(), "abc")
	assert.ErrorIs(t, err, apperrors.ErrUnknownSymbol)
}
