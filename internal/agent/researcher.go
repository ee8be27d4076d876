package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/finsightai/finsight/internal/core"
	"github.com/finsightai/finsight/internal/llm"
)

// debateExcerpt caps how much of each side is quoted to the moderator.
const debateExcerpt = 2000

// ResearcherStage stages a bull/bear debate over the analyst insights and
// has a moderator summarize it. Both sides argue concurrently from the
// same insights and prior lessons.
type ResearcherStage struct {
	llm    llm.Provider
	logger *zap.Logger
}

func NewResearcherStage(provider llm.Provider, logger *zap.Logger) *ResearcherStage {
	return &ResearcherStage{llm: provider, logger: logger}
}

func (s *ResearcherStage) Name() string { return "researcher" }

func (s *ResearcherStage) Run(ctx context.Context, state core.AnalysisContext) (core.ContextUpdate, error) {
	lessons := joinLessons(state.PriorLessons)

	var bull, bear string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := llm.Generate(gctx, s.llm, bullSystem,
			s.sideUserPrompt("bullish", "bull", state, lessons))
		bull = out
		return err
	})
	g.Go(func() error {
		out, err := llm.Generate(gctx, s.llm, bearSystem,
			s.sideUserPrompt("bearish", "bear", state, lessons))
		bear = out
		return err
	})
	if err := g.Wait(); err != nil {
		return core.ContextUpdate{}, err
	}

	summary, err := llm.Generate(ctx, s.llm, debateModeratorSystem,
		fmt.Sprintf("provide debate result based on both bullish analysis and bearish analysis.\nBull: %s\nBear: %s",
			excerpt(bull, debateExcerpt), excerpt(bear, debateExcerpt)))
	if err != nil {
		return core.ContextUpdate{}, err
	}

	return core.ContextUpdate{
		Debate: &core.Debate{Bull: bull, Bear: bear, Summary: summary},
	}, nil
}

func (s *ResearcherStage) sideUserPrompt(stance, side string, state core.AnalysisContext, lessons string) string {
	return fmt.Sprintf(`provide a %s analysis for %s
Resources available:
Company fundamentals report: %s
news sentiment report: %s
Market research report: %s
Lessons from past decisions: %s
Use this information to deliver a compelling %s argument, engage in a dynamic debate, and address reflections and lessons from mistakes made in the past.`,
		stance, state.Symbol,
		state.Insights[core.AngleFundamentals],
		state.Insights[core.AngleSentiment],
		state.Insights[core.AngleTechnical],
		lessons, side)
}
