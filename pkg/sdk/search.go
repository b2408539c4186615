package hadithsearch

import (
	"context"
	"fmt"
	"time"

	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/request"
)

// SearchOption tunes one search.
type SearchOption func(*searchOptions)

type searchOptions struct {
	topK     *int
	useCache *bool
}

// WithTopK sets how many results to return, 1 to 50. Default 10.
func WithTopK(k int) SearchOption {
	return func(o *searchOptions) { o.topK = &k }
}

// WithoutCache bypasses the result cache for reads and writes.
func WithoutCache() SearchOption {
	return func(o *searchOptions) {
		off := false
		o.useCache = &off
	}
}

// Search runs the hybrid pipeline for query.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (resp SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observeSearch(start, &resp, err) }()

	var o searchOptions
	for _, opt := range opts {
		opt(&o)
	}

	req, err := request.New(query, o.topK, o.useCache)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}

	out, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}

	results := make([]Result, len(out.Results))
	for i := range out.Results {
		results[i] = Result{Hadith: fromDomainDocument(&out.Results[i].Document), Score: out.Results[i].Score}
	}
	return SearchResponse{
		Query:         req.Query(),
		ExpandedQuery: out.ExpandedQuery,
		Results:       results,
		Cached:        out.Cached,
		Took:          out.Elapsed,
	}, nil
}

// Get returns one hadith by id.
func (c *Client) Get(ctx context.Context, id string) (h Hadith, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opGet, start, err) }()

	doc, err := c.docSvc.Get(ctx, id)
	if err != nil {
		return Hadith{}, fmt.Errorf("get: %w", err)
	}
	return fromDomainDocument(&doc), nil
}

func fromDomainDocument(d *domdoc.Document) Hadith {
	return Hadith{
		ID:             d.ID(),
		Collection:     string(d.Collection()),
		Volume:         d.Volume(),
		Section:        d.Section(),
		SequenceNumber: d.SequenceNumber(),
		Attribution:    d.Attribution(),
		Text:           d.Body(),
	}
}

func toDomainDocuments(hadiths []Hadith) ([]domdoc.Document, error) {
	docs := make([]domdoc.Document, len(hadiths))
	for i := range hadiths {
		h := &hadiths[i]
		collection, err := domdoc.ParseCollection(h.Collection)
		if err != nil {
			return nil, fmt.Errorf("hadithsearch: %w", err)
		}
		d, err := domdoc.New(h.ID, collection, h.Volume, h.Section, h.SequenceNumber, h.Attribution, h.Text)
		if err != nil {
			return nil, fmt.Errorf("hadithsearch: %w", err)
		}
		docs[i] = d
	}
	return docs, nil
}
