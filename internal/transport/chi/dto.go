package chi

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes returned to clients.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeNotFound         ErrorCode = "not_found"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query    string `json:"query"`
	TopK     *int   `json:"topK,omitempty"`
	UseCache *bool  `json:"useCache,omitempty"`
}

// HadithItem is one hadith with its relevance score.
type HadithItem struct {
	ID             string  `json:"id"`
	Collection     string  `json:"collection"`
	Volume         int     `json:"volume"`
	Section        string  `json:"section"`
	SequenceNumber int     `json:"sequenceNumber"`
	Attribution    string  `json:"attribution"`
	Text           string  `json:"text"`
	Score          float64 `json:"score"`
}

// SearchResponse is the body of a successful POST /search.
type SearchResponse struct {
	Query         string       `json:"query"`
	ExpandedQuery string       `json:"expandedQuery"`
	Results       []HadithItem `json:"results"`
	Cached        bool         `json:"cached"`
	TookMs        float64      `json:"tookMs"`
}

// CacheStatsResponse is the body of GET /cache/stats.
type CacheStatsResponse struct {
	Size    int     `json:"size"`
	MaxSize int     `json:"maxSize"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse is the body of GET /ready.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
