package marketdata

import (
	"context"

	"github.com/finsightai/finsight/internal/core"
)

// PriceSource serves price history and quotes. Prices are mandatory input
// for an analysis run, so these calls fail with an error when data cannot
// be fetched.
type PriceSource interface {
	Name() string
	GetPriceHistory(ctx context.Context, symbol string, interval core.Interval, lookbackYears int) (core.PriceSeries, error)
	GetQuote(ctx context.Context, symbol string) (*core.Quote, error)
}

// Enricher serves the optional context data. Symbols without coverage
// (ETFs, crypto) yield a nil or empty result, never an error; errors are
// reserved for transport failures.
type Enricher interface {
	GetFundamentals(ctx context.Context, symbol string) (*core.Fundamentals, error)
	GetNews(ctx context.Context, symbol string, limit int) ([]core.NewsArticle, error)
	GetInsiderTransactions(ctx context.Context, symbol string, limit int) ([]core.InsiderTransaction, error)
}

// Provider is the full market data port consumed by the pipeline.
type Provider interface {
	PriceSource
	Enricher
}

// Composite joins a price source with an enricher into one Provider.
type Composite struct {
	prices PriceSource
	enrich Enricher
}

// NewComposite builds a Provider from parts. A nil enricher degrades all
// enrichment calls to no-data.
func NewComposite(prices PriceSource, enrich Enricher) *Composite {
	if enrich == nil {
		enrich = noopEnricher{}
	}
	return &Composite{prices: prices, enrich: enrich}
}

func (c *Composite) Name() string { return c.prices.Name() }

func (c *Composite) GetPriceHistory(ctx context.Context, symbol string, interval core.Interval, lookbackYears int) (core.PriceSeries, error) {
	return c.prices.GetPriceHistory(ctx, symbol, interval, lookbackYears)
}

func (c *Composite) GetQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	return c.prices.GetQuote(ctx, symbol)
}

func (c *Composite) GetFundamentals(ctx context.Context, symbol string) (*core.Fundamentals, error) {
	return c.enrich.GetFundamentals(ctx, symbol)
}

func (c *Composite) GetNews(ctx context.Context, symbol string, limit int) ([]core.NewsArticle, error) {
	return c.enrich.GetNews(ctx, symbol, limit)
}

func (c *Composite) GetInsiderTransactions(ctx context.Context, symbol string, limit int) ([]core.InsiderTransaction, error) {
	return c.enrich.GetInsiderTransactions(ctx, symbol, limit)
}

// noopEnricher reports no coverage for everything.
type noopEnricher struct{}

func (noopEnricher) GetFundamentals(context.Context, string) (*core.Fundamentals, error) {
	return nil, nil
}

func (noopEnricher) GetNews(context.Context, string, int) ([]core.NewsArticle, error) {
	return nil, nil
}

func (noopEnricher) GetInsiderTransactions(context.Context, string, int) ([]core.InsiderTransaction, error) {
	return nil, nil
}
