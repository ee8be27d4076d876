package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/finsightai/finsight/internal/core"
	"github.com/finsightai/finsight/internal/llm"
	"github.com/finsightai/finsight/internal/marketdata"
)

// AnalystStage produces the four analysis angles: fundamentals, sentiment,
// technical and special (insider activity). The four generations run
// concurrently; missing market data degrades the affected angle to a
// no-data marker while a generation failure aborts the stage.
type AnalystStage struct {
	llm    llm.Provider
	market marketdata.Provider
	logger *zap.Logger
}

func NewAnalystStage(provider llm.Provider, market marketdata.Provider, logger *zap.Logger) *AnalystStage {
	return &AnalystStage{llm: provider, market: market, logger: logger}
}

func (s *AnalystStage) Name() string { return "analyst" }

func (s *AnalystStage) Run(ctx context.Context, state core.AnalysisContext) (core.ContextUpdate, error) {
	spec, usedDefault := core.ResolvePeriod(state.Period)
	if usedDefault {
		s.logger.Warn("unknown period, using medium defaults",
			zap.String("period", string(state.Period)))
	}

	technicalData := s.technicalData(ctx, state.Symbol, spec)
	fundamentalsData := s.fundamentalsData(ctx, state.Symbol)
	newsData := s.newsData(ctx, state.Symbol)
	insiderData := s.insiderData(ctx, state.Symbol)

	var fundamentals, sentiment, technical, special string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := llm.Generate(gctx, s.llm, fundamentalsSystem,
			fmt.Sprintf("Please summarize the financial data of %s based on the data below:\n%s",
				state.Symbol, fundamentalsData))
		fundamentals = out
		return err
	})
	g.Go(func() error {
		out, err := llm.Generate(gctx, s.llm, sentimentSystem,
			fmt.Sprintf("Please provide a sentiment analysis for %s based on the news below:\n%s",
				state.Symbol, newsData))
		sentiment = out
		return err
	})
	g.Go(func() error {
		out, err := llm.Generate(gctx, s.llm, technicalSystem,
			fmt.Sprintf("Please return the technical analysis report for %s based on the indicators below:\n%s",
				state.Symbol, technicalData))
		technical = out
		return err
	})
	g.Go(func() error {
		out, err := llm.Generate(gctx, s.llm, specialSystem,
			fmt.Sprintf("Assess insider transactions and special insights for %s:\n%s",
				state.Symbol, insiderData))
		special = out
		return err
	})
	if err := g.Wait(); err != nil {
		return core.ContextUpdate{}, err
	}

	return core.ContextUpdate{
		Insights: map[string]string{
			core.AngleFundamentals: fundamentals,
			core.AngleSentiment:    sentiment,
			core.AngleTechnical:    technical,
			core.AngleSpecial:      special,
		},
	}, nil
}

func (s *AnalystStage) technicalData(ctx context.Context, symbol string, spec core.PeriodSpec) string {
	series, err := s.market.GetPriceHistory(ctx, symbol, spec.Interval, spec.LookbackYears)
	if err != nil {
		s.logger.Warn("price history unavailable",
			zap.String("symbol", symbol), zap.Error(err))
		return noDataMarker
	}
	return formatIndicators(series)
}

func (s *AnalystStage) fundamentalsData(ctx context.Context, symbol string) string {
	f, err := s.market.GetFundamentals(ctx, symbol)
	if err != nil {
		s.logger.Warn("fundamentals unavailable",
			zap.String("symbol", symbol), zap.Error(err))
		return noDataMarker
	}
	return formatFundamentals(f)
}

func (s *AnalystStage) newsData(ctx context.Context, symbol string) string {
	articles, err := s.market.GetNews(ctx, symbol, 20)
	if err != nil {
		s.logger.Warn("news unavailable",
			zap.String("symbol", symbol), zap.Error(err))
		return noDataMarker
	}
	return formatNews(articles)
}

func (s *AnalystStage) insiderData(ctx context.Context, symbol string) string {
	txs, err := s.market.GetInsiderTransactions(ctx, symbol, 20)
	if err != nil {
		s.logger.Warn("insider transactions unavailable",
			zap.String("symbol", symbol), zap.Error(err))
		return noDataMarker
	}
	return formatInsiders(txs)
}
