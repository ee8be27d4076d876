package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/finsightai/finsight/internal/core"
)

// Guard wraps a Store with an availability probe. The probe runs once, on
// first use; if the backend is unreachable every write becomes a no-op and
// every read returns empty, so a pipeline run proceeds without memory
// instead of failing.
type Guard struct {
	store  Store
	probe  func(context.Context) error
	logger *zap.Logger

	once  sync.Once
	alive bool
}

// NewGuard wraps store. probe checks reachability; nil means always alive.
func NewGuard(store Store, probe func(context.Context) error, logger *zap.Logger) *Guard {
	return &Guard{
		store:  store,
		probe:  probe,
		logger: logger,
	}
}

func (g *Guard) available(ctx context.Context) bool {
	g.once.Do(func() {
		if g.probe == nil {
			g.alive = true
			return
		}
		if err := g.probe(ctx); err != nil {
			g.logger.Warn("memory store unreachable, continuing without memory", zap.Error(err))
			return
		}
		g.alive = true
	})
	return g.alive
}

// EnsureCollection forwards when the backend is reachable. A configuration
// mismatch on a reachable backend is still surfaced; unreachable degrades.
func (g *Guard) EnsureCollection(ctx context.Context, name string, dim int, distance Distance) error {
	if !g.available(ctx) {
		return nil
	}
	return g.store.EnsureCollection(ctx, name, dim, distance)
}

// Put forwards when the backend is reachable and is a no-op otherwise.
func (g *Guard) Put(ctx context.Context, record core.MemoryRecord) error {
	if !g.available(ctx) {
		g.logger.Debug("memory disabled, dropping record",
			zap.String("symbol", record.Symbol),
			zap.String("report_type", string(record.ReportType)))
		return nil
	}
	return g.store.Put(ctx, record)
}

// QueryLatest forwards when the backend is reachable. Unreachable backends
// and query failures both yield an empty result, never an error, so the
// caller cannot distinguish "no memory" from "no memories".
func (g *Guard) QueryLatest(ctx context.Context, symbol string, reportType core.ReportType, limit int) ([]core.MemoryRecord, error) {
	if !g.available(ctx) {
		return []core.MemoryRecord{}, nil
	}
	records, err := g.store.QueryLatest(ctx, symbol, reportType, limit)
	if err != nil {
		g.logger.Warn("memory query failed, returning empty",
			zap.String("symbol", symbol),
			zap.String("report_type", string(reportType)),
			zap.Error(err))
		return []core.MemoryRecord{}, nil
	}
	if records == nil {
		records = []core.MemoryRecord{}
	}
	return records, nil
}
