package memory

import (
	"context"

	"github.com/finsightai/finsight/internal/core"
)

// Distance is the vector distance metric fixed at collection creation.
type Distance string

const (
	DistanceCosine    Distance = "cosine"
	DistanceEuclidean Distance = "l2-squared"
)

// Store is the append-only archive of past analysis artifacts. Records are
// never updated or deleted; retrieval is exact-match filter plus recency
// ordering.
type Store interface {
	// EnsureCollection creates the named collection if it does not exist.
	// It is idempotent for a matching dimension/distance and fails with a
	// configuration error when a same-named collection exists with
	// different parameters.
	EnsureCollection(ctx context.Context, name string, dim int, distance Distance) error

	// Put embeds and appends one record, assigning it a fresh unique id.
	// A record with empty content is skipped entirely.
	Put(ctx context.Context, record core.MemoryRecord) error

	// QueryLatest returns up to limit records matching symbol and
	// reportType exactly, ordered by analysis datetime descending. The
	// result is empty, never nil, when nothing matches.
	QueryLatest(ctx context.Context, symbol string, reportType core.ReportType, limit int) ([]core.MemoryRecord, error)
}
