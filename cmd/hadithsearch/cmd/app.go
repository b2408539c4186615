package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hadithsearch/internal/app"
	"github.com/kailas-cloud/hadithsearch/internal/config"
	redisdb "github.com/kailas-cloud/hadithsearch/internal/db/redis"
	docrepo "github.com/kailas-cloud/hadithsearch/internal/repository/document"
	openaiEmb "github.com/kailas-cloud/hadithsearch/internal/transport/openai"
	"github.com/kailas-cloud/hadithsearch/internal/transport/rerank"
	searchuc "github.com/kailas-cloud/hadithsearch/internal/usecase/search"
)

// buildApp is the composition root: remote embedder and reranker clients
// plus the driver-specific graph from config.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app.App, error) {
	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		Logger:  logger,
	})

	reranker, err := rerank.New(rerank.Config{
		BaseURL: cfg.Reranker.BaseURL,
		Model:   cfg.Reranker.Model,
		APIKey:  cfg.Reranker.APIKey,
		Timeout: time.Duration(cfg.Reranker.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create reranker: %w", err)
	}

	a, err := app.Build(ctx, &app.Params{
		Driver:     cfg.Index.Driver,
		CorpusPath: cfg.Index.CorpusPath,
		CacheDir:   cfg.Embedding.CacheDir,
		Dimensions: cfg.Embedding.Dimensions,
		BatchSize:  cfg.Embedding.BatchSize,
		Workers:    cfg.Embedding.Workers,
		Redis: redisdb.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
		},
		ReadinessTimeout: time.Duration(cfg.Database.ReadinessTimeout) * time.Second,
		Keyspace:         docrepo.Keyspace{Prefix: cfg.Index.KeyPrefix, Index: cfg.Index.Name},
		Embedder:         embedder,
		EmbeddingModel:   cfg.Embedding.Model,
		QueryInstruction: cfg.Embedding.QueryInstruction,
		Reranker:         reranker,
		Search: searchuc.Config{
			VectorTopK:  cfg.Search.VectorTopK,
			KeywordTopK: cfg.Search.KeywordTopK,
			RerankTopK:  cfg.Search.RerankTopK,
			RRFK:        cfg.Search.RRFK,
		},
		CacheSize: cfg.Cache.MaxSize,
		CacheTTL:  cfg.Cache.TTL(),
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Corpus ready", zap.String("driver", cfg.Index.Driver), zap.Int("documents", a.Size))
	return a, nil
}

func closeApp(a *app.App, logger *zap.Logger) {
	if err := a.Close(); err != nil {
		logger.Warn("Error releasing resources", zap.Error(err))
	}
}
