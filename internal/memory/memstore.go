package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/finsightai/finsight/internal/core"
)

// MemStore is an in-memory Store used for tests and for running without a
// vector database. Retrieval is filter plus sort; no vectors are kept.
type MemStore struct {
	mu          sync.RWMutex
	records     []core.MemoryRecord
	collections map[string]collectionParams
}

type collectionParams struct {
	dim      int
	distance Distance
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{collections: map[string]collectionParams{}}
}

// EnsureCollection records each collection's parameters on first sight and
// enforces them on every later call for that name.
func (s *MemStore) EnsureCollection(_ context.Context, name string, dim int, distance Distance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.collections[name]; ok {
		if p.dim != dim || p.distance != distance {
			return core.WrapError(core.ErrCollectionMismatch,
				fmt.Errorf("collection %s has dim=%d distance=%s, want dim=%d distance=%s",
					name, p.dim, p.distance, dim, distance))
		}
		return nil
	}
	s.collections[name] = collectionParams{dim: dim, distance: distance}
	return nil
}

// Put appends a copy of the record. Empty content is skipped.
func (s *MemStore) Put(_ context.Context, record core.MemoryRecord) error {
	if record.Content == "" {
		return nil
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// QueryLatest filters by symbol and reportType and returns the newest
// limit records, analysis datetime descending.
func (s *MemStore) QueryLatest(_ context.Context, symbol string, reportType core.ReportType, limit int) ([]core.MemoryRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	matched := []core.MemoryRecord{}
	for _, r := range s.records {
		if r.Symbol == symbol && r.ReportType == reportType {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].AnalysisDatetime.After(matched[j].AnalysisDatetime)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Len returns the number of stored records.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
