package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsightai/finsight/internal/core"
	"github.com/finsightai/finsight/internal/llm"
	"github.com/finsightai/finsight/internal/marketdata"
)

// TraderStage turns the debate into a concrete trading plan anchored to
// the latest close price. A missing quote degrades the price anchor, not
// the stage.
type TraderStage struct {
	llm    llm.Provider
	market marketdata.Provider
	logger *zap.Logger
}

func NewTraderStage(provider llm.Provider, market marketdata.Provider, logger *zap.Logger) *TraderStage {
	return &TraderStage{llm: provider, market: market, logger: logger}
}

func (s *TraderStage) Name() string { return "trader" }

func (s *TraderStage) Run(ctx context.Context, state core.AnalysisContext) (core.ContextUpdate, error) {
	spec, _ := core.ResolvePeriod(state.Period)

	closeLine := "unavailable"
	if quote, err := s.market.GetQuote(ctx, state.Symbol); err != nil {
		s.logger.Warn("quote unavailable",
			zap.String("symbol", state.Symbol), zap.Error(err))
	} else {
		closeLine = fmt.Sprintf("$%.2f", quote.Price)
	}

	systemPrompt := fmt.Sprintf(traderSystemTemplate,
		closeLine, spec.Horizon, closeLine, spec.Horizon,
		joinLessons(state.PriorLessons))

	userPrompt := fmt.Sprintf(`provide trader_plan including:
- trading signal: BUY/SELL/HOLD
- trading timing: when/what price to BUY/SELL
- reason for trading
Debate result: %s`, state.Debate.Summary)

	plan, err := llm.Generate(ctx, s.llm, systemPrompt, userPrompt)
	if err != nil {
		return core.ContextUpdate{}, err
	}
	return core.ContextUpdate{Decision: &plan}, nil
}
