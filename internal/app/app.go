// Package app wires the search service graph for one index driver. Both the
// CLI and the embeddable SDK build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hadithsearch/internal/config"
	badgerdb "github.com/kailas-cloud/hadithsearch/internal/db/badger"
	redisdb "github.com/kailas-cloud/hadithsearch/internal/db/redis"
	"github.com/kailas-cloud/hadithsearch/internal/domain"
	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
	"github.com/kailas-cloud/hadithsearch/internal/local/corpus"
	"github.com/kailas-cloud/hadithsearch/internal/local/keyword"
	"github.com/kailas-cloud/hadithsearch/internal/local/vector"
	logpkg "github.com/kailas-cloud/hadithsearch/internal/logger"
	"github.com/kailas-cloud/hadithsearch/internal/metrics"
	docrepo "github.com/kailas-cloud/hadithsearch/internal/repository/document"
	"github.com/kailas-cloud/hadithsearch/internal/repository/embcache"
	"github.com/kailas-cloud/hadithsearch/internal/repository/resultcache"
	searchrepo "github.com/kailas-cloud/hadithsearch/internal/repository/search"
	documentuc "github.com/kailas-cloud/hadithsearch/internal/usecase/document"
	"github.com/kailas-cloud/hadithsearch/internal/usecase/expansion"
	healthuc "github.com/kailas-cloud/hadithsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/hadithsearch/internal/usecase/search"
)

// Params describes one service graph.
type Params struct {
	// Driver is config.DriverLocal or config.DriverRedis.
	Driver string

	// Local driver: the corpus comes from Documents when set, else CorpusPath.
	CorpusPath string
	Documents  []domdoc.Document
	// CacheDir holds the badger embedding cache. Empty keeps it in memory.
	CacheDir   string
	Dimensions int
	BatchSize  int
	Workers    int

	// Redis driver.
	Redis            redisdb.Config
	ReadinessTimeout time.Duration
	Keyspace         docrepo.Keyspace

	// Embedder vectorizes corpus text. Queries go through it too, prefixed
	// with QueryInstruction when set.
	Embedder         domain.Embedder
	EmbeddingModel   string
	QueryInstruction string
	Reranker         searchuc.Reranker

	Search    searchuc.Config
	CacheSize int
	CacheTTL  time.Duration
}

// App is a wired service graph.
type App struct {
	Search    *searchuc.Service
	Documents *documentuc.Service
	Cache     *resultcache.Cache
	Health    *healthuc.Service
	// Size is the verified number of corpus documents.
	Size int

	closers []func() error
}

type backend struct {
	keyword   searchuc.KeywordIndex
	vector    searchuc.VectorIndex
	documents documentuc.Repository
	store     healthuc.Checker
}

// Build wires the graph and verifies the corpus. It fails when the corpus or
// index is missing or empty.
func Build(ctx context.Context, p *Params, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if p.Embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if p.Reranker == nil {
		return nil, errors.New("reranker is required")
	}

	a := &App{}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	var (
		be  backend
		err error
	)
	switch p.Driver {
	case config.DriverLocal:
		be, err = a.localBackend(ctx, p, logger)
	case config.DriverRedis:
		be, err = a.redisBackend(ctx, p, logger)
	default:
		err = fmt.Errorf("unknown index driver %q", p.Driver)
	}
	if err != nil {
		return nil, err
	}

	a.Cache, err = resultcache.New(p.CacheSize, p.CacheTTL,
		resultcache.WithRecorder(metrics.ResultCache{}))
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}

	a.Search = searchuc.New(
		expansion.New(), be.keyword, be.vector, p.Reranker, a.Cache, p.Search,
		searchuc.WithRecorder(metrics.Search{}),
	)

	a.Documents = documentuc.New(be.documents)
	a.Size, err = a.Documents.Verify(logpkg.ContextWithLogger(ctx, logger))
	if err != nil {
		return nil, fmt.Errorf("verify corpus (driver %s): %w", p.Driver, err)
	}

	checkers := map[string]healthuc.Checker{healthuc.ComponentStore: be.store}
	if hc, isChecker := p.Embedder.(healthuc.Checker); isChecker {
		checkers[healthuc.ComponentEmbedding] = hc
	}
	if hc, isChecker := p.Reranker.(healthuc.Checker); isChecker {
		checkers[healthuc.ComponentReranker] = hc
	}
	a.Health = healthuc.New(checkers)

	ok = true
	return a, nil
}

// localBackend loads the corpus and builds both in-process indexes. Corpus
// embeddings go through a badger-backed cache so restarts skip the
// embedding server.
func (a *App) localBackend(ctx context.Context, p *Params, logger *zap.Logger) (backend, error) {
	store, err := loadCorpus(p)
	if err != nil {
		return backend{}, err
	}
	logger.Info("Corpus loaded",
		zap.String("path", p.CorpusPath),
		zap.Int("documents", len(store.Documents())),
	)

	kv, err := badgerdb.Open(badgerdb.Config{Dir: p.CacheDir, InMemory: p.CacheDir == ""}, logger)
	if err != nil {
		return backend{}, fmt.Errorf("open embedding cache: %w", err)
	}
	a.closers = append(a.closers, kv.Close)

	cached := embcache.New(p.Embedder, kv, p.EmbeddingModel, metrics.EmbeddingCacheTotal, logger)

	kw, err := keyword.Build(ctx, store.Documents())
	if err != nil {
		return backend{}, fmt.Errorf("build keyword index: %w", err)
	}
	a.closers = append(a.closers, kw.Close)

	vec, err := vector.Build(ctx, store.Documents(), cached, vector.Options{
		Dimensions: p.Dimensions,
		BatchSize:  p.BatchSize,
		Workers:    p.Workers,
		Query:      QueryEmbedder(cached, p.QueryInstruction),
		Logger:     logger,
	})
	if err != nil {
		return backend{}, fmt.Errorf("build vector index: %w", err)
	}

	return backend{keyword: kw, vector: vec, documents: store, store: store}, nil
}

func loadCorpus(p *Params) (*corpus.Store, error) {
	if p.Documents != nil {
		store, err := corpus.New(p.Documents)
		if err != nil {
			return nil, fmt.Errorf("load corpus: %w", err)
		}
		return store, nil
	}
	if p.CorpusPath == "" {
		return nil, errors.New("corpus path is required for the local driver")
	}
	store, err := corpus.LoadFile(p.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return store, nil
}

// redisBackend connects to a pre-built Redis FT index.
func (a *App) redisBackend(ctx context.Context, p *Params, logger *zap.Logger) (backend, error) {
	store, err := redisdb.NewStore(p.Redis)
	if err != nil {
		return backend{}, fmt.Errorf("create redis store: %w", err)
	}
	a.closers = append(a.closers, func() error { store.Close(); return nil })

	if err := store.WaitForReady(ctx, p.ReadinessTimeout); err != nil {
		return backend{}, fmt.Errorf("redis not ready: %w", err)
	}
	logger.Info("Connected to redis",
		zap.Strings("addrs", p.Redis.Addrs),
		zap.String("index", p.Keyspace.Index),
	)

	cached := embcache.New(p.Embedder, store, p.EmbeddingModel, metrics.EmbeddingCacheTotal, logger)

	return backend{
		keyword:   searchrepo.NewKeyword(store, p.Keyspace),
		vector:    searchrepo.NewVector(store, QueryEmbedder(cached, p.QueryInstruction), p.Keyspace),
		documents: docrepo.New(store, p.Keyspace),
		store:     store,
	}, nil
}

// QueryEmbedder wraps e with the query instruction prefix when one is configured.
func QueryEmbedder(e domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return e
	}
	return domain.NewInstructionEmbedder(e, instruction)
}

// Close releases resources in reverse acquisition order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
