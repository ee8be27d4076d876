package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/finsightai/finsight/internal/core"
)

const defaultBaseURL = "https://www.alphavantage.co"

// timePublished is the Alpha Vantage news timestamp layout.
const timePublished = "20060102T150405"

// Client enriches analysis with Alpha Vantage fundamentals, news and
// insider transactions. Symbols the API has no coverage for come back as
// no-data values, not errors.
type Client struct {
	client *resty.Client
	apiKey string
}

// New creates an Alpha Vantage client. baseURL falls back to the public
// endpoint when empty.
func New(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	return &Client{client: client, apiKey: apiKey}, nil
}

func (c *Client) get(ctx context.Context, params map[string]string) ([]byte, error) {
	params["apikey"] = c.apiKey
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/query")
	if err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("alphavantage request: %w", err))
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("alphavantage status %d", resp.StatusCode()))
	}
	return resp.Body(), nil
}

type overviewResponse struct {
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Sector               string `json:"Sector"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
	EPS                  string `json:"EPS"`
	DividendYield        string `json:"DividendYield"`
	ProfitMargin         string `json:"ProfitMargin"`
	RevenueTTM           string `json:"RevenueTTM"`
	LatestQuarter        string `json:"LatestQuarter"`
}

// GetFundamentals fetches the company overview. An empty overview means
// the symbol has no fundamentals coverage and yields nil, nil.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*core.Fundamentals, error) {
	body, err := c.get(ctx, map[string]string{
		"function": "OVERVIEW",
		"symbol":   symbol,
	})
	if err != nil {
		return nil, err
	}

	var ov overviewResponse
	if err := json.Unmarshal(body, &ov); err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("decoding overview: %w", err))
	}
	if ov.Symbol == "" && ov.Name == "" {
		return nil, nil // no coverage
	}

	f := &core.Fundamentals{
		Symbol:        symbol,
		Name:          ov.Name,
		Sector:        ov.Sector,
		MarketCap:     parseNum(ov.MarketCapitalization),
		PERatio:       parseNum(ov.PERatio),
		EPS:           parseNum(ov.EPS),
		DividendYield: parseNum(ov.DividendYield),
		ProfitMargin:  parseNum(ov.ProfitMargin),
		RevenueTTM:    parseNum(ov.RevenueTTM),
	}
	if t, err := time.Parse("2006-01-02", ov.LatestQuarter); err == nil {
		f.AsOf = t
	}
	return f, nil
}

type newsResponse struct {
	Feed []struct {
		Title                 string `json:"title"`
		URL                   string `json:"url"`
		TimePublished         string `json:"time_published"`
		Summary               string `json:"summary"`
		Source                string `json:"source"`
		OverallSentimentScore any    `json:"overall_sentiment_score"`
	} `json:"feed"`
}

// GetNews fetches recent news with provider sentiment, newest first as the
// API returns them. An empty feed yields an empty slice.
func (c *Client) GetNews(ctx context.Context, symbol string, limit int) ([]core.NewsArticle, error) {
	if limit <= 0 {
		limit = 20
	}
	body, err := c.get(ctx, map[string]string{
		"function": "NEWS_SENTIMENT",
		"tickers":  symbol,
		"limit":    strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	var nr newsResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("decoding news: %w", err))
	}

	articles := make([]core.NewsArticle, 0, len(nr.Feed))
	for _, item := range nr.Feed {
		if len(articles) == limit {
			break
		}
		a := core.NewsArticle{
			Title:     item.Title,
			Source:    item.Source,
			URL:       item.URL,
			Summary:   item.Summary,
			Sentiment: anyToFloat(item.OverallSentimentScore),
		}
		if t, err := time.Parse(timePublished, item.TimePublished); err == nil {
			a.PublishedAt = t
		}
		articles = append(articles, a)
	}
	return articles, nil
}

type insiderResponse struct {
	Data []struct {
		TransactionDate       string `json:"transaction_date"`
		Executive             string `json:"executive"`
		ExecutiveTitle        string `json:"executive_title"`
		AcquisitionOrDisposal string `json:"acquisition_or_disposal"`
		Shares                string `json:"shares"`
		SharePrice            string `json:"share_price"`
	} `json:"data"`
}

// GetInsiderTransactions fetches reported insider trades, mapping the
// API's acquisition/disposal flag to buy/sell.
func (c *Client) GetInsiderTransactions(ctx context.Context, symbol string, limit int) ([]core.InsiderTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	body, err := c.get(ctx, map[string]string{
		"function": "INSIDER_TRANSACTIONS",
		"symbol":   symbol,
	})
	if err != nil {
		return nil, err
	}

	var ir insiderResponse
	if err := json.Unmarshal(body, &ir); err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("decoding insider transactions: %w", err))
	}

	txs := make([]core.InsiderTransaction, 0, len(ir.Data))
	for _, item := range ir.Data {
		if len(txs) == limit {
			break
		}
		tx := core.InsiderTransaction{
			Insider:  item.Executive,
			Relation: item.ExecutiveTitle,
			Type:     "sell",
			Shares:   parseNum(item.Shares),
			Price:    parseNum(item.SharePrice),
		}
		if item.AcquisitionOrDisposal == "A" {
			tx.Type = "buy"
		}
		if t, err := time.Parse("2006-01-02", item.TransactionDate); err == nil {
			tx.Date = t
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// parseNum handles Alpha Vantage's stringly-typed numbers. "None" and
// malformed values come back as zero.
func parseNum(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func anyToFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		return parseNum(x)
	}
	return 0
}
