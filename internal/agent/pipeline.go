package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/finsightai/finsight/internal/core"
	"github.com/finsightai/finsight/internal/llm"
	"github.com/finsightai/finsight/internal/marketdata"
	"github.com/finsightai/finsight/internal/memory"
	"github.com/finsightai/finsight/internal/metrics"
)

// lessonLimit caps how many past lessons are loaded per run.
const lessonLimit = 10

// Stage is one step of the analysis pipeline. A stage reads the shared
// context and returns a partial update; it never mutates the context it
// was given.
type Stage interface {
	Name() string
	Run(ctx context.Context, state core.AnalysisContext) (core.ContextUpdate, error)
}

// Pipeline runs the four analysis stages in order: analyst, researcher,
// trader, risk. A stage failure aborts the run and nothing is archived;
// only a fully completed run produces a memory record.
type Pipeline struct {
	stages  []Stage
	store   memory.Store
	metrics *metrics.Registry
	logger  *zap.Logger
	now     func() time.Time
}

// NewPipeline wires the standard four stages. reg may be nil when metrics
// are not collected.
func NewPipeline(provider llm.Provider, market marketdata.Provider, store memory.Store, reg *metrics.Registry, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		stages: []Stage{
			NewAnalystStage(provider, market, logger),
			NewResearcherStage(provider, logger),
			NewTraderStage(provider, market, logger),
			NewRiskStage(provider, logger),
		},
		store:   store,
		metrics: reg,
		logger:  logger,
		now:     time.Now,
	}
}

// NewCustomPipeline builds a pipeline with explicit stages. Used by tests.
func NewCustomPipeline(stages []Stage, store memory.Store, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		stages: stages,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run executes a full analysis for one symbol and period. Input is
// validated before any stage or port is touched.
func (p *Pipeline) Run(ctx context.Context, symbol string, period core.Period) (core.AnalysisContext, error) {
	start := p.now()

	if err := core.ValidateSymbol(symbol); err != nil {
		p.recordRun("invalid", start)
		return core.AnalysisContext{}, err
	}
	if !period.Valid() {
		p.recordRun("invalid", start)
		return core.AnalysisContext{}, core.WrapError(core.ErrInvalidInput,
			fmt.Errorf("unknown period: %s", period))
	}

	state := core.AnalysisContext{
		Symbol:       symbol,
		Period:       period,
		CreatedAt:    start.UTC(),
		PriorLessons: p.loadLessons(ctx, symbol),
	}

	p.logger.Info("starting analysis",
		zap.String("symbol", symbol),
		zap.String("period", string(period)),
		zap.Int("prior_lessons", len(state.PriorLessons)))

	for _, stage := range p.stages {
		stageStart := p.now()
		update, err := stage.Run(ctx, state)
		if err != nil {
			p.logger.Error("stage failed",
				zap.String("stage", stage.Name()),
				zap.Error(err))
			p.recordRun("failed", start)
			return core.AnalysisContext{}, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		state = state.Apply(update)
		p.recordStage(stage.Name(), stageStart)
	}

	p.archive(ctx, state)
	p.recordRun("ok", start)
	p.logger.Info("analysis complete",
		zap.String("symbol", symbol),
		zap.Duration("elapsed", p.now().Sub(start)))
	return state, nil
}

// loadLessons fetches prior lessons for the symbol. Memory being down is
// not a reason to skip the run.
func (p *Pipeline) loadLessons(ctx context.Context, symbol string) []string {
	records, err := p.store.QueryLatest(ctx, symbol, core.ReportTypeLesson, lessonLimit)
	if err != nil {
		p.logger.Warn("loading lessons failed", zap.String("symbol", symbol), zap.Error(err))
		p.recordMemoryOp("query", "error")
		return nil
	}
	p.recordMemoryOp("query", "ok")
	lessons := make([]string, 0, len(records))
	for _, r := range records {
		lessons = append(lessons, r.Content)
	}
	return lessons
}

// archive stores the completed run as one report record. The risk verdict
// is the retrievable content; everything else rides in metadata.
func (p *Pipeline) archive(ctx context.Context, state core.AnalysisContext) {
	record := core.MemoryRecord{
		Symbol:           state.Symbol,
		ReportType:       core.ReportTypeReport,
		Content:          state.RiskVerdict,
		AnalysisDatetime: state.CreatedAt,
		Metadata: map[string]any{
			"period":   string(state.Period),
			"insights": state.Insights,
			"debate":   state.Debate.Summary,
			"decision": state.Decision,
		},
	}
	if err := p.store.Put(ctx, record); err != nil {
		p.logger.Warn("archiving report failed",
			zap.String("symbol", state.Symbol),
			zap.Error(err))
		p.recordMemoryOp("put", "error")
		return
	}
	p.recordMemoryOp("put", "ok")
}

func (p *Pipeline) recordRun(status string, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordRun(status, p.now().Sub(start).Seconds())
}

func (p *Pipeline) recordStage(name string, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordStage(name, p.now().Sub(start).Seconds())
}

func (p *Pipeline) recordMemoryOp(op, status string) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordMemoryOp(op, status)
}
