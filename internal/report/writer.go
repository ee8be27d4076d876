package report

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsightai/finsight/internal/core"
)

// Writer renders completed runs and persists them.
type Writer struct {
	storage Storage
	logger  *zap.Logger
}

func NewWriter(storage Storage, logger *zap.Logger) *Writer {
	return &Writer{storage: storage, logger: logger}
}

// Save renders the run and writes it, returning the storage path.
func (w *Writer) Save(ctx context.Context, state core.AnalysisContext) (string, error) {
	path := Filename(state)
	if err := w.storage.Write(ctx, path, Render(state)); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}
	w.logger.Info("report saved",
		zap.String("symbol", state.Symbol),
		zap.String("path", path))
	return path, nil
}
