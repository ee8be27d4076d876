package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
	"go.uber.org/zap"

	"github.com/finsightai/finsight/internal/core"
	"github.com/finsightai/finsight/internal/embedding"
)

// WeaviateStore implements Store on a Weaviate instance. Vectors are
// computed client-side through the embedder; the class is created with
// vectorizer "none" so the server never re-embeds.
type WeaviateStore struct {
	client   *weaviate.Client
	embedder embedding.Embedder
	class    string
	logger   *zap.Logger
}

// NewWeaviateStore creates a store bound to one collection on the given
// host. An empty apiKey connects anonymously.
func NewWeaviateStore(scheme, host, apiKey, collection string, embedder embedding.Embedder, logger *zap.Logger) (*WeaviateStore, error) {
	if host == "" {
		return nil, fmt.Errorf("weaviate host required")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection name required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	cfg := weaviate.Config{
		Scheme: scheme,
		Host:   host,
	}
	if apiKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: apiKey}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating weaviate client: %w", err)
	}
	return &WeaviateStore{
		client:   client,
		embedder: embedder,
		class:    classNameFor(collection),
		logger:   logger,
	}, nil
}

// Ready probes the instance. Used by Guard to decide whether to run with
// or without memory.
func (s *WeaviateStore) Ready(ctx context.Context) error {
	ok, err := s.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return core.WrapError(core.ErrStoreUnavailable, err)
	}
	if !ok {
		return core.WrapError(core.ErrStoreUnavailable, fmt.Errorf("weaviate not ready"))
	}
	return nil
}

// classNameFor converts a collection name like "finsight_reports" into a
// valid Weaviate class name ("FinsightReports").
func classNameFor(collection string) string {
	var b strings.Builder
	upper := true
	for _, r := range collection {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EnsureCollection creates the class if absent. An existing class must
// carry the same dimension and distance; a mismatch is a configuration
// error, never a silent reuse.
func (s *WeaviateStore) EnsureCollection(ctx context.Context, name string, dim int, distance Distance) error {
	class := classNameFor(name)

	existing, err := s.client.Schema().ClassGetter().WithClassName(class).Do(ctx)
	if err == nil && existing != nil {
		return checkClassConfig(existing, dim, distance)
	}

	schema := &models.Class{
		Class:      class,
		Vectorizer: "none",
		VectorIndexConfig: map[string]interface{}{
			"distance":  string(distance),
			"dimension": float64(dim),
		},
		Properties: []*models.Property{
			{Name: "recordId", DataType: []string{"text"}, Tokenization: "field"},
			{Name: "symbol", DataType: []string{"text"}, Tokenization: "field"},
			{Name: "reportType", DataType: []string{"text"}, Tokenization: "field"},
			{Name: "content", DataType: []string{"text"}},
			{Name: "analysisDatetime", DataType: []string{"date"}},
			{Name: "metadata", DataType: []string{"text"}},
		},
	}
	if err := s.client.Schema().ClassCreator().WithClass(schema).Do(ctx); err != nil {
		return core.WrapError(core.ErrStoreUnavailable, fmt.Errorf("creating class %s: %w", class, err))
	}
	s.logger.Info("created memory collection",
		zap.String("class", class),
		zap.Int("dimension", dim),
		zap.String("distance", string(distance)))
	return nil
}

// checkClassConfig compares an existing class against the requested
// dimension and distance. The dimension is recorded in the vector index
// config at creation because Weaviate itself only pins it on first insert.
func checkClassConfig(class *models.Class, dim int, distance Distance) error {
	cfg, ok := class.VectorIndexConfig.(map[string]interface{})
	if !ok {
		return core.WrapError(core.ErrCollectionMismatch,
			fmt.Errorf("class %s has no readable vector index config", class.Class))
	}
	if got, ok := cfg["distance"].(string); ok && got != string(distance) {
		return core.WrapError(core.ErrCollectionMismatch,
			fmt.Errorf("class %s distance is %s, want %s", class.Class, got, distance))
	}
	if raw, ok := cfg["dimension"]; ok {
		var got int
		switch v := raw.(type) {
		case float64:
			got = int(v)
		case int:
			got = v
		case json.Number:
			n, _ := v.Int64()
			got = int(n)
		}
		if got != 0 && got != dim {
			return core.WrapError(core.ErrCollectionMismatch,
				fmt.Errorf("class %s dimension is %d, want %d", class.Class, got, dim))
		}
	}
	return nil
}

// Put embeds and appends one record. Empty content is skipped so failed
// or degraded runs never pollute retrieval.
func (s *WeaviateStore) Put(ctx context.Context, record core.MemoryRecord) error {
	if record.Content == "" {
		s.logger.Debug("skipping empty memory record",
			zap.String("symbol", record.Symbol),
			zap.String("report_type", string(record.ReportType)))
		return nil
	}

	vec, err := s.embedder.Embed(ctx, record.Content)
	if err != nil {
		return core.WrapError(core.ErrStoreUnavailable, fmt.Errorf("embedding record: %w", err))
	}

	id := record.ID
	if id == "" {
		id = uuid.NewString()
	}
	when := record.AnalysisDatetime
	if when.IsZero() {
		when = time.Now().UTC()
	}

	meta := "{}"
	if len(record.Metadata) > 0 {
		raw, err := json.Marshal(record.Metadata)
		if err != nil {
			return core.WrapError(core.ErrInvalidInput, fmt.Errorf("marshaling metadata: %w", err))
		}
		meta = string(raw)
	}

	_, err = s.client.Data().Creator().
		WithClassName(s.class).
		WithID(id).
		WithProperties(map[string]interface{}{
			"recordId":         id,
			"symbol":           record.Symbol,
			"reportType":       string(record.ReportType),
			"content":          record.Content,
			"analysisDatetime": when.Format(time.RFC3339),
			"metadata":         meta,
		}).
		WithVector(vec).
		Do(ctx)
	if err != nil {
		return core.WrapError(core.ErrStoreUnavailable, fmt.Errorf("storing record: %w", err))
	}

	s.logger.Debug("stored memory record",
		zap.String("id", id),
		zap.String("symbol", record.Symbol),
		zap.String("report_type", string(record.ReportType)))
	return nil
}

// QueryLatest returns up to limit records for symbol and reportType,
// newest analysis first.
func (s *WeaviateStore) QueryLatest(ctx context.Context, symbol string, reportType core.ReportType, limit int) ([]core.MemoryRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	where := filters.Where().
		WithOperator(filters.And).
		WithOperands([]*filters.WhereBuilder{
			filters.Where().
				WithPath([]string{"symbol"}).
				WithOperator(filters.Equal).
				WithValueString(symbol),
			filters.Where().
				WithPath([]string{"reportType"}).
				WithOperator(filters.Equal).
				WithValueString(string(reportType)),
		})

	sortBy := graphql.Sort{
		Path:  []string{"analysisDatetime"},
		Order: graphql.Desc,
	}

	result, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(
			graphql.Field{Name: "recordId"},
			graphql.Field{Name: "symbol"},
			graphql.Field{Name: "reportType"},
			graphql.Field{Name: "content"},
			graphql.Field{Name: "analysisDatetime"},
			graphql.Field{Name: "metadata"},
		).
		WithWhere(where).
		WithSort(sortBy).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreUnavailable, fmt.Errorf("querying records: %w", err))
	}
	if len(result.Errors) > 0 {
		return nil, core.WrapError(core.ErrStoreUnavailable,
			fmt.Errorf("query error: %s", result.Errors[0].Message))
	}

	return parseRecords(result.Data, s.class), nil
}

// parseRecords walks the GraphQL Get response. Malformed entries are
// dropped rather than failing the whole query.
func parseRecords(data map[string]models.JSONObject, class string) []core.MemoryRecord {
	records := []core.MemoryRecord{}

	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return records
	}
	items, ok := get[class].([]interface{})
	if !ok {
		return records
	}

	for _, item := range items {
		props, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		rec := core.MemoryRecord{
			ID:         stringProp(props, "recordId"),
			Symbol:     stringProp(props, "symbol"),
			ReportType: core.ReportType(stringProp(props, "reportType")),
			Content:    stringProp(props, "content"),
		}
		if ts := stringProp(props, "analysisDatetime"); ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				rec.AnalysisDatetime = t
			}
		}
		if raw := stringProp(props, "metadata"); raw != "" && raw != "{}" {
			var meta map[string]any
			if err := json.Unmarshal([]byte(raw), &meta); err == nil {
				rec.Metadata = meta
			}
		}
		records = append(records, rec)
	}
	return records
}

func stringProp(props map[string]interface{}, key string) string {
	v, _ := props[key].(string)
	return v
}
