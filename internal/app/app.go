// Package app wires configuration into a runnable analysis service.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsightai/finsight/internal/agent"
	"github.com/finsightai/finsight/internal/config"
	"github.com/finsightai/finsight/internal/core"
	"github.com/finsightai/finsight/internal/embedding"
	"github.com/finsightai/finsight/internal/llm"
	"github.com/finsightai/finsight/internal/llm/factory"
	"github.com/finsightai/finsight/internal/marketdata"
	"github.com/finsightai/finsight/internal/marketdata/alphavantage"
	"github.com/finsightai/finsight/internal/marketdata/yahoo"
	"github.com/finsightai/finsight/internal/memory"
	"github.com/finsightai/finsight/internal/metrics"
	"github.com/finsightai/finsight/internal/report"
)

// App is the composition root: the pipeline plus the report writer and
// metrics, built from one config.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Pipeline *agent.Pipeline
	Writer   *report.Writer
	Metrics  *metrics.Registry

	store      memory.Store
	collection string
	dimension  int
	distance   memory.Distance
}

// New builds the application from config. The config must already be
// validated.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LLM.Provider == "" {
		return nil, core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("llm provider required"))
	}

	provider, err := factory.New(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("creating llm provider: %w", err)
	}

	market, err := buildMarketData(cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := buildMemory(cfg, logger)
	if err != nil {
		return nil, err
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		provider = llm.WithUsage(provider, reg)
	}

	storage, err := buildReportStorage(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		Pipeline:   agent.NewPipeline(provider, market, store, reg, logger),
		Writer:     report.NewWriter(storage, logger),
		Metrics:    reg,
		store:      store,
		collection: cfg.Memory.Collection,
		dimension:  cfg.Embedding.Dimension,
		distance:   memory.Distance(cfg.Memory.Distance),
	}, nil
}

// Init prepares the memory collection. Safe to call when the backend is
// down; the guard degrades instead of failing.
func (a *App) Init(ctx context.Context) error {
	return a.store.EnsureCollection(ctx, a.collection, a.dimension, a.distance)
}

func buildMarketData(cfg *config.Config, logger *zap.Logger) (marketdata.Provider, error) {
	var enrich marketdata.Enricher
	if cfg.MarketData.AlphaVantage.APIKey != "" {
		av, err := alphavantage.New(cfg.MarketData.AlphaVantage.APIKey, cfg.MarketData.AlphaVantage.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("creating alphavantage client: %w", err)
		}
		enrich = av
	} else {
		logger.Warn("alphavantage api key not set, fundamentals/news/insider data disabled")
	}
	return marketdata.NewComposite(yahoo.New(), enrich), nil
}

func buildMemory(cfg *config.Config, logger *zap.Logger) (memory.Store, error) {
	switch cfg.Memory.Backend {
	case "weaviate":
		embedder, err := embedding.NewOpenAI(
			cfg.Embedding.APIKey,
			cfg.Embedding.BaseURL,
			cfg.Embedding.Model,
			cfg.Embedding.Dimension)
		if err != nil {
			return nil, fmt.Errorf("creating embedder: %w", err)
		}
		ws, err := memory.NewWeaviateStore(
			cfg.Memory.Scheme,
			cfg.Memory.Host,
			cfg.Memory.APIKey,
			cfg.Memory.Collection,
			embedder, logger)
		if err != nil {
			return nil, fmt.Errorf("creating weaviate store: %w", err)
		}
		return memory.NewGuard(ws, ws.Ready, logger), nil
	default:
		return memory.NewMemStore(), nil
	}
}

func buildReportStorage(cfg *config.Config) (report.Storage, error) {
	switch cfg.Report.Type {
	case "s3":
		return report.NewS3(report.S3Config{
			Bucket:    cfg.Report.S3.Bucket,
			Endpoint:  cfg.Report.S3.Endpoint,
			Region:    cfg.Report.S3.Region,
			AccessKey: cfg.Report.S3.AccessKey,
			SecretKey: cfg.Report.S3.SecretKey,
			Prefix:    cfg.Report.S3.Prefix,
		})
	default:
		return report.NewLocalFS(cfg.Report.Path)
	}
}
