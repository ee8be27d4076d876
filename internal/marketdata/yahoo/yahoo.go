package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/finsightai/finsight/internal/core"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Yahoo serves price history and quotes from the Yahoo Finance chart API.
type Yahoo struct {
	baseURL string
	client  *http.Client
}

// New creates a Yahoo price source.
func New() *Yahoo {
	return NewWithBaseURL(defaultBaseURL)
}

// NewWithBaseURL creates a Yahoo price source against a custom endpoint.
func NewWithBaseURL(baseURL string) *Yahoo {
	return &Yahoo{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// toYahooSymbol converts internal symbol format to Yahoo format
func toYahooSymbol(symbol string) string {
	// Shanghai stocks: 600519.SH -> 600519.SS
	if strings.HasSuffix(symbol, ".SH") {
		return strings.TrimSuffix(symbol, ".SH") + ".SS"
	}
	return symbol
}

func toYahooInterval(interval core.Interval) string {
	switch interval {
	case core.IntervalDaily:
		return "1d"
	case core.IntervalWeekly:
		return "1wk"
	case core.IntervalMonthly:
		return "1mo"
	default:
		return "1d"
	}
}

// GetQuote fetches the latest traded price.
func (y *Yahoo) GetQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	if err := core.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/%s?interval=1d&range=1d", y.baseURL, toYahooSymbol(symbol))

	result, err := y.fetchChart(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(result.Chart.Result) == 0 {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("no data for symbol: %s", symbol))
	}

	meta := result.Chart.Result[0].Meta
	return &core.Quote{
		Symbol: symbol,
		Price:  meta.RegularMarketPrice,
		Time:   time.Unix(int64(meta.RegularMarketTime), 0).UTC(),
		Source: "yahoo",
	}, nil
}

// GetPriceHistory fetches OHLCV bars covering lookbackYears up to now.
// Bars with missing values are skipped; out-of-order timestamps from the
// API are dropped so the returned series is strictly ascending.
func (y *Yahoo) GetPriceHistory(ctx context.Context, symbol string, interval core.Interval, lookbackYears int) (core.PriceSeries, error) {
	if err := core.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if lookbackYears <= 0 {
		lookbackYears = 1
	}

	end := time.Now()
	start := end.AddDate(-lookbackYears, 0, 0)
	url := fmt.Sprintf("%s/%s?interval=%s&period1=%d&period2=%d",
		y.baseURL, toYahooSymbol(symbol), toYahooInterval(interval), start.Unix(), end.Unix())

	result, err := y.fetchChart(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(result.Chart.Result) == 0 {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("no data for symbol: %s", symbol))
	}

	r := result.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("no quote data for symbol: %s", symbol))
	}
	quotes := r.Indicators.Quote[0]

	series := make(core.PriceSeries, 0, len(r.Timestamp))
	var lastTS int64
	for i, ts := range r.Timestamp {
		if i >= len(quotes.Open) || quotes.Open[i] == nil || quotes.High[i] == nil ||
			quotes.Low[i] == nil || quotes.Close[i] == nil {
			continue // skip missing data
		}
		if int64(ts) <= lastTS {
			continue
		}
		lastTS = int64(ts)

		var volume int64
		if i < len(quotes.Volume) && quotes.Volume[i] != nil {
			volume = int64(*quotes.Volume[i])
		}
		series = append(series, core.PriceBar{
			Time:   time.Unix(int64(ts), 0).UTC(),
			Open:   *quotes.Open[i],
			High:   *quotes.High[i],
			Low:    *quotes.Low[i],
			Close:  *quotes.Close[i],
			Volume: volume,
		})
	}

	if len(series) == 0 {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("empty history for symbol: %s", symbol))
	}
	return series, nil
}

func (y *Yahoo) fetchChart(ctx context.Context, url string) (*chartResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; finsight/1.0)")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("fetching chart: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("decoding response: %w", err))
	}
	if result.Chart.Error != nil {
		return nil, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("yahoo error: %s", result.Chart.Error.Description))
	}
	return &result, nil
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta  `json:"meta"`
	Timestamp  []int      `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type chartMeta struct {
	Symbol              string  `json:"symbol"`
	RegularMarketPrice  float64 `json:"regularMarketPrice"`
	RegularMarketVolume int     `json:"regularMarketVolume"`
	RegularMarketTime   int     `json:"regularMarketTime"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int     `json:"volume"`
}
