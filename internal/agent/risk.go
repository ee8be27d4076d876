package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsightai/finsight/internal/core"
	"github.com/finsightai/finsight/internal/llm"
)

// RiskStage adjudicates the trading plan against the accumulated context
// and produces the final verdict. Upstream sections are quoted as bounded
// excerpts so the prompt stays within budget regardless of how verbose
// earlier stages were.
type RiskStage struct {
	llm    llm.Provider
	logger *zap.Logger
}

func NewRiskStage(provider llm.Provider, logger *zap.Logger) *RiskStage {
	return &RiskStage{llm: provider, logger: logger}
}

func (s *RiskStage) Name() string { return "risk" }

func (s *RiskStage) Run(ctx context.Context, state core.AnalysisContext) (core.ContextUpdate, error) {
	spec, _ := core.ResolvePeriod(state.Period)
	lessons := joinLessons(state.PriorLessons)

	systemPrompt := fmt.Sprintf(riskSystemTemplate,
		excerpt(state.Decision, excerptLimit),
		excerpt(lessons, excerptLimit),
		spec.Horizon)

	insightsSummary := fmt.Sprintf(
		"Analyst insights: fundamentals=%s sentiment=%s technical=%s special=%s",
		excerpt(state.Insights[core.AngleFundamentals], excerptLimit),
		excerpt(state.Insights[core.AngleSentiment], excerptLimit),
		excerpt(state.Insights[core.AngleTechnical], excerptLimit),
		excerpt(state.Insights[core.AngleSpecial], excerptLimit))

	userPrompt := fmt.Sprintf(`provide risk_plan including:
- risky risk analysis
- neutral risk analysis
- safe risk analysis
- final risk evaluation: APPROVE/REJECT
- reason for risk evaluation
Insights: %s
Debate: %s
Trader plan: %s`,
		insightsSummary,
		excerpt(state.Debate.Summary, excerptLimit),
		state.Decision)

	verdict, err := llm.Generate(ctx, s.llm, systemPrompt, userPrompt)
	if err != nil {
		return core.ContextUpdate{}, err
	}
	return core.ContextUpdate{RiskVerdict: &verdict}, nil
}
