package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finsightai/finsight/internal/core"
)

const chartBody = `{
  "chart": {
    "result": [{
      "meta": {
        "symbol": "AAPL",
        "regularMarketPrice": 190.5,
        "regularMarketVolume": 52000000,
        "regularMarketTime": 1704400200
      },
      "timestamp": [1704067200, 1704153600, 1704240000, 1704326400],
      "indicators": {
        "quote": [{
          "open":   [184.2, 185.0, null, 186.1],
          "high":   [186.0, 186.5, null, 187.9],
          "low":    [183.5, 184.1, null, 185.7],
          "close":  [185.6, 184.8, null, 187.2],
          "volume": [48000000, 51000000, null, 47000000]
        }]
      }
    }],
    "error": null
  }
}`

func newTestServer(t *testing.T, body string, status int) (*httptest.Server, *Yahoo) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, NewWithBaseURL(srv.URL)
}

func TestYahoo_GetPriceHistory(t *testing.T) {
	_, y := newTestServer(t, chartBody, http.StatusOK)

	series, err := y.GetPriceHistory(context.Background(), "AAPL", core.IntervalDaily, 1)
	if err != nil {
		t.Fatalf("GetPriceHistory failed: %v", err)
	}
	// The null bar must be skipped.
	if len(series) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(series))
	}
	if err := series.Validate(); err != nil {
		t.Errorf("series not strictly ascending: %v", err)
	}
	if series[0].Close != 185.6 {
		t.Errorf("first close = %v, want 185.6", series[0].Close)
	}
	if series[2].Volume != 47000000 {
		t.Errorf("last volume = %d, want 47000000", series[2].Volume)
	}
}

func TestYahoo_GetQuote(t *testing.T) {
	_, y := newTestServer(t, chartBody, http.StatusOK)

	q, err := y.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if q.Price != 190.5 {
		t.Errorf("price = %v, want 190.5", q.Price)
	}
	if q.Source != "yahoo" {
		t.Errorf("source = %q, want yahoo", q.Source)
	}
}

func TestYahoo_APIError(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`
	_, y := newTestServer(t, body, http.StatusOK)

	_, err := y.GetPriceHistory(context.Background(), "NOPE", core.IntervalDaily, 1)
	if !errors.Is(err, core.ErrDataUnavailable) {
		t.Errorf("expected DATA_UNAVAILABLE, got %v", err)
	}
}

func TestYahoo_BadStatus(t *testing.T) {
	_, y := newTestServer(t, "rate limited", http.StatusTooManyRequests)

	_, err := y.GetQuote(context.Background(), "AAPL")
	if !errors.Is(err, core.ErrDataUnavailable) {
		t.Errorf("expected DATA_UNAVAILABLE, got %v", err)
	}
}

func TestYahoo_InvalidSymbolRejectedBeforeFetch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()
	y := NewWithBaseURL(srv.URL)

	_, err := y.GetPriceHistory(context.Background(), "not a symbol!", core.IntervalDaily, 1)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if calls != 0 {
		t.Errorf("endpoint was called %d times for an invalid symbol", calls)
	}
}

func TestToYahooSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"0700.HK", "0700.HK"},
		{"600519.SH", "600519.SS"}, // Shanghai -> SS for Yahoo
		{"000001.SZ", "000001.SZ"},
	}

	for _, tc := range tests {
		got := toYahooSymbol(tc.input)
		if got != tc.expected {
			t.Errorf("toYahooSymbol(%s) = %s, want %s", tc.input, got, tc.expected)
		}
	}
}

func TestToYahooInterval(t *testing.T) {
	tests := []struct {
		input    core.Interval
		expected string
	}{
		{core.IntervalDaily, "1d"},
		{core.IntervalWeekly, "1wk"},
		{core.IntervalMonthly, "1mo"},
		{core.Interval("bogus"), "1d"},
	}

	for _, tc := range tests {
		got := toYahooInterval(tc.input)
		if got != tc.expected {
			t.Errorf("toYahooInterval(%s) = %s, want %s", tc.input, got, tc.expected)
		}
	}
}
