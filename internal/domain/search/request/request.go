package request

import "github.com/kailas-cloud/hadithsearch/internal/domain"

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 10
	MinTopK        = 1
	MaxTopK        = 50
)

// Request is a validated search query.
type Request struct {
	query    string
	topK     int
	useCache bool
}

// New validates search parameters. A nil topK means DefaultTopK, a nil
// useCache means true. An explicit topK outside [MinTopK, MaxTopK] is rejected.
func New(query string, topK *int, useCache *bool) (Request, error) {
	if query == "" {
		return Request{}, domain.Validationf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, domain.Validationf("query too long (max %d chars)", MaxQueryLength)
	}

	k := DefaultTopK
	if topK != nil {
		k = *topK
	}
	if k < MinTopK || k > MaxTopK {
		return Request{}, domain.Validationf("topK must be between %d and %d", MinTopK, MaxTopK)
	}

	cache := true
	if useCache != nil {
		cache = *useCache
	}

	return Request{query: query, topK: k, useCache: cache}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// TopK returns the number of results to return.
func (r *Request) TopK() int { return r.topK }

// UseCache reports whether the result cache may be read and written.
func (r *Request) UseCache() bool { return r.useCache }
