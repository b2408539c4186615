package hadithsearch

import "time"

// Collection names.
const (
	CollectionBukhari = "bukhari"
	CollectionMuslim  = "muslim"
)

// Hadith is one corpus record.
type Hadith struct {
	ID             string
	Collection     string // "bukhari" or "muslim"
	Volume         int
	Section        string
	SequenceNumber int
	Attribution    string
	Text           string
}

// Result is a ranked hit with its cross-encoder score.
type Result struct {
	Hadith
	Score float64
}

// SearchResponse is the outcome of one search.
type SearchResponse struct {
	Query         string
	ExpandedQuery string
	Results       []Result
	Cached        bool
	Took          time.Duration
}

// CacheStats reports result cache counters.
type CacheStats struct {
	Size    int
	MaxSize int
	Hits    int64
	Misses  int64
	HitRate float64
}
