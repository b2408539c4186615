// Package vector is an in-memory HNSW index over corpus embeddings.
package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/coder/hnsw"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hadithsearch/internal/domain"
	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/hit"
)

// Defaults for graph construction and corpus embedding.
const (
	DefaultM         = 16
	DefaultEfSearch  = 64
	DefaultBatchSize = 64
	DefaultWorkers   = 4
)

// Options tunes index construction.
type Options struct {
	// Dimensions, when positive, is enforced on every embedding.
	Dimensions int
	BatchSize  int
	Workers    int
	M          int
	EfSearch   int
	// Query embeds search text. Defaults to the corpus embedder; set it to
	// add a query-only instruction prefix.
	Query  domain.Embedder
	Logger *zap.Logger
}

func (o *Options) applyDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.M <= 0 {
		o.M = DefaultM
	}
	if o.EfSearch <= 0 {
		o.EfSearch = DefaultEfSearch
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Index answers nearest-neighbor queries by cosine similarity. It is
// immutable after Build and safe for concurrent searches.
type Index struct {
	graph    *hnsw.Graph[int]
	docs     []domdoc.Document
	embedder domain.Embedder
	dims     int
}

// Build embeds every document with embedder (batched, on a worker pool)
// and inserts the vectors into an HNSW graph.
func Build(ctx context.Context, docs []domdoc.Document, embedder domain.Embedder, opts Options) (*Index, error) {
	opts.applyDefaults()

	vectors, err := embedCorpus(ctx, docs, embedder, opts)
	if err != nil {
		return nil, err
	}

	g := hnsw.NewGraph[int]()
	g.Distance = hnsw.CosineDistance
	g.M = opts.M
	g.EfSearch = opts.EfSearch

	dims := opts.Dimensions
	nodes := make([]hnsw.Node[int], 0, len(vectors))
	for i, v := range vectors {
		if dims == 0 {
			dims = len(v)
		}
		if len(v) != dims {
			return nil, fmt.Errorf("document %s: embedding has %d dimensions, want %d",
				docs[i].ID(), len(v), dims)
		}
		nodes = append(nodes, hnsw.MakeNode(i, normalize(v)))
	}
	if len(nodes) > 0 {
		g.Add(nodes...)
	}

	opts.Logger.Info("Vector index built",
		zap.Int("documents", len(docs)),
		zap.Int("dimensions", dims),
	)

	query := opts.Query
	if query == nil {
		query = embedder
	}
	return &Index{
		graph:    g,
		docs:     docs,
		embedder: query,
		dims:     dims,
	}, nil
}

// embedCorpus fans batches out to an ants pool. The first error wins and
// cancels the remaining batches.
func embedCorpus(ctx context.Context, docs []domdoc.Document, embedder domain.Embedder, opts Options) ([][]float32, error) {
	vectors := make([][]float32, len(docs))
	if len(docs) == 0 {
		return vectors, nil
	}

	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var wg sync.WaitGroup
	total := (len(docs) + opts.BatchSize - 1) / opts.BatchSize
	for start := 0; start < len(docs); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(docs))
		batchNo := start/opts.BatchSize + 1

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			texts := make([]string, 0, end-start)
			for i := start; i < end; i++ {
				texts = append(texts, docs[i].SearchableText())
			}
			res, err := domain.BatchEmbed(ctx, embedder, texts)
			if err == nil && len(res.Embeddings) != len(texts) {
				err = fmt.Errorf("got %d embeddings for %d texts", len(res.Embeddings), len(texts))
			}
			if err != nil {
				cancel(fmt.Errorf("embed batch %d/%d: %w", batchNo, total, err))
				return
			}
			copy(vectors[start:end], res.Embeddings)
			opts.Logger.Debug("Embedded corpus batch",
				zap.Int("batch", batchNo),
				zap.Int("of", total),
			)
		})
		if submitErr != nil {
			wg.Done()
			cancel(fmt.Errorf("submit batch %d: %w", batchNo, submitErr))
			break
		}
	}
	wg.Wait()

	if err := context.Cause(ctx); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Search embeds text and returns up to k nearest documents. RawScore is the
// cosine similarity clamped to [0, 1].
func (x *Index) Search(ctx context.Context, text string, k int) ([]hit.Ranked, error) {
	if k <= 0 {
		return nil, nil
	}

	emb, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderEmbedding, err)
	}
	if x.dims > 0 && len(emb.Embedding) != x.dims {
		return nil, fmt.Errorf("query embedding has %d dimensions, want %d", len(emb.Embedding), x.dims)
	}
	query := normalize(emb.Embedding)

	if x.graph.Len() == 0 {
		return nil, nil
	}

	// Graph.Search does not return nodes in distance order.
	nodes := x.graph.Search(query, k)
	out := make([]hit.Ranked, 0, len(nodes))
	for _, n := range nodes {
		d := float64(x.graph.Distance(query, n.Value))
		out = append(out, hit.Ranked{
			DocumentID: x.docs[n.Key].ID(),
			RawScore:   max(0, 1-d),
			Document:   x.docs[n.Key],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RawScore > out[j].RawScore })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Len returns the number of indexed vectors.
func (x *Index) Len() int { return x.graph.Len() }

// HealthCheck proxies to the query embedder.
func (x *Index) HealthCheck(ctx context.Context) error {
	if hc, ok := x.embedder.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	if sum == 0 {
		return out
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range out {
		out[i] *= inv
	}
	return out
}
