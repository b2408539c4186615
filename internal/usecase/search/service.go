package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/hadithsearch/internal/domain"
	"github.com/kailas-cloud/hadithsearch/internal/domain/document"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/request"
	"github.com/kailas-cloud/hadithsearch/internal/logger"
)

// Pipeline stage names reported to the Recorder.
const (
	StageExpand   = "expand"
	StageRetrieve = "retrieve"
	StageRerank   = "rerank"
)

// Config holds the pipeline cutoffs.
type Config struct {
	VectorTopK  int
	KeywordTopK int
	// RerankTopK bounds how many fused candidates reach the reranker; the rest are dropped.
	RerankTopK int
	RRFK       int
}

// DefaultConfig returns the production cutoffs.
func DefaultConfig() Config {
	return Config{
		VectorTopK:  30,
		KeywordTopK: 30,
		RerankTopK:  20,
		RRFK:        DefaultRRFK,
	}
}

// Outcome is the result of one search.
type Outcome struct {
	Results       []hit.Reranked
	ExpandedQuery string
	Cached        bool
	Elapsed       time.Duration
}

// Service runs the hybrid retrieval pipeline: cache lookup, query expansion,
// parallel keyword and vector retrieval, RRF fusion, reranking, cache write.
type Service struct {
	expander Expander
	keyword  KeywordIndex
	vector   VectorIndex
	reranker Reranker
	cache    ResultCache
	cfg      Config

	rec Recorder
	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder reports stage timings and provider failures to rec.
func WithRecorder(rec Recorder) Option {
	return func(s *Service) { s.rec = rec }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a search service. Zero or negative cutoffs fall back to DefaultConfig.
func New(
	expander Expander, keyword KeywordIndex, vector VectorIndex,
	reranker Reranker, cache ResultCache, cfg Config, opts ...Option,
) *Service {
	def := DefaultConfig()
	if cfg.VectorTopK <= 0 {
		cfg.VectorTopK = def.VectorTopK
	}
	if cfg.KeywordTopK <= 0 {
		cfg.KeywordTopK = def.KeywordTopK
	}
	if cfg.RerankTopK <= 0 {
		cfg.RerankTopK = def.RerankTopK
	}
	if cfg.RRFK <= 0 {
		cfg.RRFK = def.RRFK
	}

	s := &Service{
		expander: expander,
		keyword:  keyword,
		vector:   vector,
		reranker: reranker,
		cache:    cache,
		cfg:      cfg,
		rec:      nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search executes the pipeline for a validated request.
func (s *Service) Search(ctx context.Context, req *request.Request) (Outcome, error) {
	start := s.now()
	log := logger.FromContext(ctx)

	if req.UseCache() {
		if cached, ok := s.cache.Get(req.Query()); ok {
			log.Debug("result cache hit", zap.String("query", req.Query()), zap.Int("cached_results", len(cached)))
			s.rec.Served(true)
			return Outcome{
				Results:       truncate(cached, req.TopK()),
				ExpandedQuery: s.expander.Expand(req.Query()),
				Cached:        true,
				Elapsed:       s.now().Sub(start),
			}, nil
		}
	}

	t := s.now()
	expanded := s.expander.Expand(req.Query())
	s.rec.ObserveStage(StageExpand, s.now().Sub(t))
	log.Debug("query expanded", zap.String("query", req.Query()), zap.String("expanded", expanded))

	if err := ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("search: %w", err)
	}

	t = s.now()
	vectorHits, keywordHits, err := s.retrieve(ctx, expanded)
	if err != nil {
		return Outcome{}, err
	}
	s.rec.ObserveStage(StageRetrieve, s.now().Sub(t))

	fused := Fuse(vectorHits, keywordHits, s.cfg.RRFK)
	if len(fused) > s.cfg.RerankTopK {
		fused = fused[:s.cfg.RerankTopK]
	}
	log.Debug("candidates fused",
		zap.Int("vector_hits", len(vectorHits)),
		zap.Int("keyword_hits", len(keywordHits)),
		zap.Int("candidates", len(fused)))

	if err = ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("search: %w", err)
	}

	t = s.now()
	reranked, err := s.rerank(ctx, req.Query(), fused)
	if err != nil {
		return Outcome{}, err
	}
	s.rec.ObserveStage(StageRerank, s.now().Sub(t))

	if req.UseCache() && ctx.Err() == nil {
		s.cache.Set(req.Query(), reranked)
	}

	s.rec.Served(false)
	return Outcome{
		Results:       truncate(reranked, req.TopK()),
		ExpandedQuery: expanded,
		Cached:        false,
		Elapsed:       s.now().Sub(start),
	}, nil
}

// retrieve fans out to both indexes; a failure of either cancels the other.
func (s *Service) retrieve(ctx context.Context, expanded string) (vectorHits, keywordHits []hit.Ranked, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		vectorHits, err = s.vector.Search(gctx, expanded, s.cfg.VectorTopK)
		if err != nil {
			return s.providerError(ctx, domain.ProviderVector, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		keywordHits, err = s.keyword.Search(gctx, expanded, s.cfg.KeywordTopK)
		if err != nil {
			return s.providerError(ctx, domain.ProviderKeyword, err)
		}
		return nil
	})

	if err = g.Wait(); err != nil {
		return nil, nil, err
	}
	return vectorHits, keywordHits, nil
}

func (s *Service) rerank(ctx context.Context, query string, fused []hit.Fused) ([]hit.Reranked, error) {
	if len(fused) == 0 {
		return []hit.Reranked{}, nil
	}

	docs := make([]document.Document, len(fused))
	for i, f := range fused {
		docs[i] = f.Document
	}

	scores, err := s.reranker.Score(ctx, query, docs)
	if err != nil {
		return nil, s.providerError(ctx, domain.ProviderReranker, err)
	}
	if len(scores) != len(docs) {
		return nil, s.providerError(ctx, domain.ProviderReranker,
			fmt.Errorf("got %d scores for %d candidates", len(scores), len(docs)))
	}

	out := make([]hit.Reranked, len(fused))
	for i, f := range fused {
		out[i] = hit.Reranked{DocumentID: f.DocumentID, Score: scores[i], Document: f.Document}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

// providerError tags err with its provider. Caller cancellation is returned as
// a context error so it is not counted as a provider failure.
func (s *Service) providerError(ctx context.Context, provider string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("search %s: %w", provider, ctxErr)
	}
	if errors.Is(err, context.Canceled) {
		// Sibling call cancelled by errgroup after the other provider failed.
		return fmt.Errorf("search %s: %w", provider, err)
	}
	s.rec.ProviderFailed(provider)

	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return fmt.Errorf("search %s: %w", provider, err)
	}
	return domain.NewProviderError(provider, err)
}

func truncate(hits []hit.Reranked, n int) []hit.Reranked {
	if n >= 0 && len(hits) > n {
		return hits[:n]
	}
	return hits
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, time.Duration) {}
func (nopRecorder) ProviderFailed(string)              {}
func (nopRecorder) Served(bool)                        {}
