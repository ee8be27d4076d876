package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New("test-key", srv.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestClient_GetFundamentals(t *testing.T) {
	body := `{
		"Symbol": "AAPL",
		"Name": "Apple Inc",
		"Sector": "TECHNOLOGY",
		"MarketCapitalization": "2950000000000",
		"PERatio": "28.5",
		"EPS": "6.42",
		"DividendYield": "0.0055",
		"ProfitMargin": "0.253",
		"RevenueTTM": "383000000000",
		"LatestQuarter": "2025-12-31"
	}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "OVERVIEW" {
			t.Errorf("function = %q, want OVERVIEW", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %q, want test-key", got)
		}
		w.Write([]byte(body))
	})

	f, err := c.GetFundamentals(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetFundamentals failed: %v", err)
	}
	if f == nil {
		t.Fatal("expected fundamentals, got nil")
	}
	if f.Name != "Apple Inc" {
		t.Errorf("name = %q", f.Name)
	}
	if f.PERatio != 28.5 {
		t.Errorf("pe ratio = %v, want 28.5", f.PERatio)
	}
	if f.AsOf.IsZero() {
		t.Error("AsOf not parsed from LatestQuarter")
	}
}

func TestClient_GetFundamentalsNoCoverage(t *testing.T) {
	// ETFs and crypto come back as an empty object.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	f, err := c.GetFundamentals(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("no coverage must not be an error, got %v", err)
	}
	if f != nil {
		t.Errorf("expected nil fundamentals, got %+v", f)
	}
}

func TestClient_GetNews(t *testing.T) {
	body := `{
		"feed": [
			{
				"title": "Apple ships new product",
				"url": "https://example.com/a",
				"time_published": "20260115T133000",
				"summary": "Launch day.",
				"source": "Newswire",
				"overall_sentiment_score": 0.31
			},
			{
				"title": "Supplier trouble",
				"url": "https://example.com/b",
				"time_published": "20260114T090000",
				"summary": "Supply chain.",
				"source": "Herald",
				"overall_sentiment_score": "-0.12"
			}
		]
	}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "NEWS_SENTIMENT" {
			t.Errorf("function = %q, want NEWS_SENTIMENT", got)
		}
		w.Write([]byte(body))
	})

	articles, err := c.GetNews(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("GetNews failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Sentiment != 0.31 {
		t.Errorf("sentiment = %v, want 0.31", articles[0].Sentiment)
	}
	// Score sometimes arrives as a string.
	if articles[1].Sentiment != -0.12 {
		t.Errorf("string sentiment = %v, want -0.12", articles[1].Sentiment)
	}
	if articles[0].PublishedAt.IsZero() {
		t.Error("time_published not parsed")
	}
}

func TestClient_GetNewsLimit(t *testing.T) {
	body := `{"feed": [
		{"title": "a"}, {"title": "b"}, {"title": "c"}
	]}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	articles, err := c.GetNews(context.Background(), "AAPL", 2)
	if err != nil {
		t.Fatalf("GetNews failed: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(articles))
	}
}

func TestClient_GetInsiderTransactions(t *testing.T) {
	body := `{
		"data": [
			{
				"transaction_date": "2026-01-10",
				"executive": "Jane Roe",
				"executive_title": "CFO",
				"acquisition_or_disposal": "A",
				"shares": "1500",
				"share_price": "187.20"
			},
			{
				"transaction_date": "2026-01-08",
				"executive": "John Doe",
				"executive_title": "Director",
				"acquisition_or_disposal": "D",
				"shares": "400",
				"share_price": "185.00"
			}
		]
	}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "INSIDER_TRANSACTIONS" {
			t.Errorf("function = %q, want INSIDER_TRANSACTIONS", got)
		}
		w.Write([]byte(body))
	})

	txs, err := c.GetInsiderTransactions(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("GetInsiderTransactions failed: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].Type != "buy" {
		t.Errorf("acquisition should map to buy, got %q", txs[0].Type)
	}
	if txs[1].Type != "sell" {
		t.Errorf("disposal should map to sell, got %q", txs[1].Type)
	}
	if txs[0].Shares != 1500 {
		t.Errorf("shares = %v, want 1500", txs[0].Shares)
	}
}

func TestClient_NoDataFeeds(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Rate-limit notes arrive as 200 with an informational body.
		w.Write([]byte(`{"Information": "Thank you for using Alpha Vantage!"}`))
	})

	articles, err := c.GetNews(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("GetNews failed: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("expected no articles, got %d", len(articles))
	}

	txs, err := c.GetInsiderTransactions(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("GetInsiderTransactions failed: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("expected no transactions, got %d", len(txs))
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New("", ""); err == nil {
		t.Error("expected error for missing API key")
	}
}
