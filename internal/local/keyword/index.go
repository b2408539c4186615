// Package keyword is an in-memory BM25 index over the corpus, built on bleve.
package keyword

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"

	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/hit"
)

const (
	analyzerName  = "hadith_text"
	fieldFullText = "full_text"
	batchSize     = 1000
)

type bleveDoc struct {
	FullText string `json:"full_text"`
}

// Index is an immutable BM25 index. Safe for concurrent searches.
type Index struct {
	index bleve.Index
	docs  map[string]domdoc.Document
}

// Build indexes the searchable text of every document.
func Build(ctx context.Context, docs []domdoc.Document) (*Index, error) {
	m, err := newMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}

	byID := make(map[string]domdoc.Document, len(docs))
	batch := idx.NewBatch()
	for i := range docs {
		if err := ctx.Err(); err != nil {
			_ = idx.Close()
			return nil, err
		}
		d := docs[i]
		byID[d.ID()] = d
		if err := batch.Index(d.ID(), bleveDoc{FullText: d.SearchableText()}); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index %s: %w", d.ID(), err)
		}
		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				_ = idx.Close()
				return nil, fmt.Errorf("flush batch: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("flush batch: %w", err)
		}
	}

	return &Index{index: idx, docs: byID}, nil
}

// newMapping lowercases unicode word tokens and scores with BM25.
func newMapping() (*mapping.IndexMappingImpl, error) {
	m := bleve.NewIndexMapping()
	err := m.AddCustomAnalyzer(analyzerName, map[string]any{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("add analyzer: %w", err)
	}
	m.DefaultAnalyzer = analyzerName
	m.ScoringModel = "bm25"

	text := bleve.NewTextFieldMapping()
	text.Analyzer = analyzerName
	text.Store = false
	text.IncludeTermVectors = false

	dm := bleve.NewDocumentStaticMapping()
	dm.AddFieldMappingsAt(fieldFullText, text)
	m.DefaultMapping = dm
	return m, nil
}

// Search returns up to k documents matching any query token, best first.
// Documents scoring zero are never returned.
func (x *Index) Search(ctx context.Context, text string, k int) ([]hit.Ranked, error) {
	if strings.TrimSpace(text) == "" || k <= 0 {
		return nil, nil
	}

	q := bleve.NewMatchQuery(text)
	q.SetField(fieldFullText)
	req := bleve.NewSearchRequestOptions(q, k, 0, false)

	res, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	out := make([]hit.Ranked, 0, len(res.Hits))
	for _, h := range res.Hits {
		if h.Score <= 0 {
			continue
		}
		doc, ok := x.docs[h.ID]
		if !ok {
			continue
		}
		out = append(out, hit.Ranked{
			DocumentID: h.ID,
			Rank:       len(out) + 1,
			RawScore:   h.Score,
			Document:   doc,
		})
	}
	return out, nil
}

// Len returns the number of indexed documents.
func (x *Index) Len() int { return len(x.docs) }

// Close releases the bleve index.
func (x *Index) Close() error { return x.index.Close() }
