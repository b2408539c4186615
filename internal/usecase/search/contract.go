package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/hadithsearch/internal/domain/document"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/hit"
)

// KeywordIndex is lexical ranked retrieval. Hits are strictly ordered, at most
// k long, and never carry a zero relevance.
type KeywordIndex interface {
	Search(ctx context.Context, text string, k int) ([]hit.Ranked, error)
}

// VectorIndex is semantic ranked retrieval. Scores are similarities: higher is better.
type VectorIndex interface {
	Search(ctx context.Context, text string, k int) ([]hit.Ranked, error)
}

// Reranker scores candidates against the raw query, one score per document in input order.
type Reranker interface {
	Score(ctx context.Context, query string, docs []document.Document) ([]float64, error)
}

// Expander enriches a query with synonyms.
type Expander interface {
	Expand(query string) string
}

// ResultCache stores finished result lists by query.
type ResultCache interface {
	Get(query string) ([]hit.Reranked, bool)
	Set(query string, payload []hit.Reranked)
}

// Recorder receives pipeline measurements. metrics.Search satisfies it.
type Recorder interface {
	ObserveStage(stage string, d time.Duration)
	ProviderFailed(provider string)
	Served(cached bool)
}
