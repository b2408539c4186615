package hadithsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hadithsearch/internal/app"
	"github.com/kailas-cloud/hadithsearch/internal/config"
	redisdb "github.com/kailas-cloud/hadithsearch/internal/db/redis"
	"github.com/kailas-cloud/hadithsearch/internal/domain"
	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/request"
	"github.com/kailas-cloud/hadithsearch/internal/metrics"
	docrepo "github.com/kailas-cloud/hadithsearch/internal/repository/document"
	"github.com/kailas-cloud/hadithsearch/internal/repository/resultcache"
	openaiEmb "github.com/kailas-cloud/hadithsearch/internal/transport/openai"
	"github.com/kailas-cloud/hadithsearch/internal/transport/rerank"
	searchuc "github.com/kailas-cloud/hadithsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Outcome, error)
}

type documentUseCase interface {
	Get(ctx context.Context, id string) (domdoc.Document, error)
}

type cacheAdmin interface {
	Stats() resultcache.Stats
	Clear()
}

// Client is the hadithsearch SDK entry point. It is safe for concurrent use.
type Client struct {
	searchSvc searchUseCase
	docSvc    documentUseCase
	cache     cacheAdmin
	healthSvc healthUseCase
	size      int
	closer    func() error
	obs       *observer
}

// New builds the indexes (or connects to Redis), verifies the corpus is not
// empty and returns a ready client. ctx bounds the startup work.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		cacheSize: DefaultCacheSize,
		cacheTTL:  DefaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	params, err := buildParams(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	if cfg.metricsReg != nil {
		metrics.Register(cfg.metricsReg)
	}

	a, err := app.Build(ctx, params, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("hadithsearch: %w", err)
	}

	return &Client{
		searchSvc: a.Search,
		docSvc:    a.Documents,
		cache:     a.Cache,
		healthSvc: a.Health,
		size:      a.Size,
		closer:    a.Close,
		obs:       obs,
	}, nil
}

func buildParams(cfg *clientConfig) (*app.Params, error) {
	p := &app.Params{
		CacheDir:         cfg.cacheDir,
		EmbeddingModel:   cfg.embeddingModel,
		QueryInstruction: cfg.queryInstruction,
		CacheSize:        cfg.cacheSize,
		CacheTTL:         cfg.cacheTTL,
	}

	switch cfg.driver {
	case "local":
		p.Driver = config.DriverLocal
		p.CorpusPath = cfg.corpusPath
		if cfg.corpus != nil {
			docs, err := toDomainDocuments(cfg.corpus)
			if err != nil {
				return nil, err
			}
			p.Documents = docs
		}
	case "redis":
		p.Driver = config.DriverRedis
		p.Redis = redisdb.Config{Addrs: cfg.addrs, Password: cfg.password}
		p.ReadinessTimeout = defaultReadinessTimeout
		p.Keyspace = docrepo.Keyspace{Prefix: "hadith:", Index: "hadiths:idx"}
		if cfg.indexName != "" {
			p.Keyspace.Index = cfg.indexName
		}
		if cfg.keyPrefix != "" {
			p.Keyspace.Prefix = cfg.keyPrefix
		}
	default:
		return nil, errors.New("hadithsearch: corpus or index required (use WithCorpusFile, WithCorpus or WithRedis)")
	}

	switch {
	case cfg.embedder != nil:
		p.Embedder = &embedderAdapter{inner: cfg.embedder}
	case cfg.embeddingURL != "":
		p.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:  cfg.embeddingKey,
			BaseURL: cfg.embeddingURL,
			Model:   cfg.embeddingModel,
		})
	default:
		return nil, errors.New("hadithsearch: embedder required (use WithEmbedder or WithEmbeddingEndpoint)")
	}

	switch {
	case cfg.reranker != nil:
		p.Reranker = &rerankerAdapter{inner: cfg.reranker}
	case cfg.rerankURL != "":
		rc, err := rerank.New(rerank.Config{BaseURL: cfg.rerankURL, Model: cfg.rerankModel})
		if err != nil {
			return nil, fmt.Errorf("hadithsearch: %w", err)
		}
		p.Reranker = rc
	default:
		return nil, errors.New("hadithsearch: reranker required (use WithReranker or WithRerankEndpoint)")
	}

	return p, nil
}

// Close releases all resources.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// Size returns the number of corpus documents verified at startup.
func (c *Client) Size() int { return c.size }

// CacheStats returns the result cache counters.
func (c *Client) CacheStats() CacheStats {
	st := c.cache.Stats()
	return CacheStats{
		Size:    st.Size,
		MaxSize: st.MaxSize,
		Hits:    st.Hits,
		Misses:  st.Misses,
		HitRate: st.HitRate,
	}
}

// ClearCache drops every cached result and resets the hit/miss counters.
func (c *Client) ClearCache() {
	start := time.Now()
	c.cache.Clear()
	c.obs.observe(opClearCache, start, nil)
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// BatchEmbed uses the native batch call when the wrapped embedder has one.
func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	be, ok := a.inner.(BatchEmbedder)
	if !ok {
		return domain.BatchEmbed(ctx, singleEmbedder{a}, texts)
	}
	r, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// HealthCheck proxies to the wrapped embedder when it supports health checks.
func (a *embedderAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(healthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// singleEmbedder hides BatchEmbed so domain.BatchEmbed falls back to Embed.
type singleEmbedder struct{ a *embedderAdapter }

func (s singleEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return s.a.Embed(ctx, text)
}

// rerankerAdapter wraps public Reranker to satisfy the pipeline contract.
type rerankerAdapter struct {
	inner Reranker
}

func (a *rerankerAdapter) Score(ctx context.Context, query string, docs []domdoc.Document) ([]float64, error) {
	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = docs[i].SearchableText()
	}
	scores, err := a.inner.Rerank(ctx, query, texts)
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderReranker, err)
	}
	return scores, nil
}

// HealthCheck proxies to the wrapped reranker when it supports health checks.
func (a *rerankerAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(healthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}
