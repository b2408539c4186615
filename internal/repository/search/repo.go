// Package search adapts Redis FT.SEARCH to the keyword and vector index
// contracts of the search pipeline.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/hadithsearch/internal/db"
	"github.com/kailas-cloud/hadithsearch/internal/domain"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/hit"
	docrepo "github.com/kailas-cloud/hadithsearch/internal/repository/document"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Keyword is BM25 retrieval over the full_text field.
type Keyword struct {
	store store
	keys  docrepo.Keyspace
}

// NewKeyword creates a keyword index adapter.
func NewKeyword(s store, keys docrepo.Keyspace) *Keyword {
	return &Keyword{store: s, keys: keys}
}

// Search tokenizes text on whitespace and returns up to k BM25 hits.
// Documents with a zero score are dropped.
func (k *Keyword) Search(ctx context.Context, text string, topK int) ([]hit.Ranked, error) {
	terms := strings.Fields(strings.ToLower(text))
	if len(terms) == 0 || topK <= 0 {
		return nil, nil
	}

	sr, err := k.store.SearchBM25(ctx, &db.TextQuery{
		IndexName:    k.keys.Index,
		Field:        docrepo.FieldFullText,
		Terms:        terms,
		TopK:         topK,
		ReturnFields: docrepo.ReturnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search bm25 %s: %w", k.keys.Index, err)
	}
	return toRanked(sr, k.keys, true)
}

// Vector is KNN retrieval over the stored corpus embeddings.
type Vector struct {
	store    store
	embedder domain.Embedder
	keys     docrepo.Keyspace
}

// NewVector creates a vector index adapter. embedder must produce vectors
// in the same space as the stored corpus embeddings.
func NewVector(s store, embedder domain.Embedder, keys docrepo.Keyspace) *Vector {
	return &Vector{store: s, embedder: embedder, keys: keys}
}

// Search embeds text and returns up to k nearest documents by cosine similarity.
func (v *Vector) Search(ctx context.Context, text string, topK int) ([]hit.Ranked, error) {
	if topK <= 0 {
		return nil, nil
	}

	emb, err := v.embedder.Embed(ctx, text)
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderEmbedding, err)
	}

	sr, err := v.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    v.keys.Index,
		VectorField:  docrepo.FieldVector,
		Vector:       emb.Embedding,
		K:            topK,
		ReturnFields: docrepo.ReturnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", v.keys.Index, err)
	}
	return toRanked(sr, v.keys, false)
}

func toRanked(sr *db.SearchResult, keys docrepo.Keyspace, dropZero bool) ([]hit.Ranked, error) {
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	out := make([]hit.Ranked, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		if dropZero && entry.Score <= 0 {
			continue
		}
		id := keys.ID(entry.Key)
		doc, err := docrepo.Decode(id, entry.Fields)
		if err != nil {
			return nil, err
		}
		out = append(out, hit.Ranked{
			DocumentID: id,
			Rank:       len(out) + 1,
			RawScore:   entry.Score,
			Document:   doc,
		})
	}
	return out, nil
}
